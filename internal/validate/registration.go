package validate

import (
	"regexp"
	"strings"
)

var (
	fullNamePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
)

// passwordSymbols is the closed set of symbols the password rule accepts.
const passwordSymbols = "@$!%*#?&"

// RegistrationInput carries the raw registration form fields. Email is
// validated locally but never transmitted; the register contract does
// not carry it.
type RegistrationInput struct {
	UserName        string
	FullName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

// Registration validates a registration form. Errors come back in field
// order: username, full name, email, phone, password, confirm-password.
// The confirm-password equality check runs regardless of whether the
// password field itself passed.
func Registration(in RegistrationInput) []FieldError {
	var errs []FieldError

	if in.UserName == "" {
		errs = append(errs, FieldError{Field: "userName", Message: "Username is required"})
	}

	switch {
	case in.FullName == "":
		errs = append(errs, FieldError{Field: "name", Message: "Full name is required"})
	case !fullNamePattern.MatchString(in.FullName):
		errs = append(errs, FieldError{Field: "name", Message: "Full name should contain alphabets only"})
	case len(in.FullName) > 50:
		errs = append(errs, FieldError{Field: "name", Message: "Full name must not exceed 50 characters"})
	}

	switch {
	case in.Email == "":
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	case !emailPattern.MatchString(in.Email):
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email format"})
	}

	switch {
	case in.PhoneNumber == "":
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Phone number is required"})
	case !phonePattern.MatchString(in.PhoneNumber):
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Invalid phone number format, please ensure a 10 digit number"})
	}

	switch {
	case in.Password == "":
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	case !isStrongPassword(in.Password):
		errs = append(errs, FieldError{Field: "password", Message: "Password must have at least 8 characters, 1 special character, 1 number, and 1 alphabet"})
	}

	// Cross-field rule, independent of the password field's own errors.
	if in.Password != in.ConfirmPassword {
		errs = append(errs, FieldError{Field: "confirmPassword", Message: "Passwords do not match"})
	}

	return errs
}

// isStrongPassword requires at least 8 characters with at least one
// letter, one digit, and one symbol from passwordSymbols, and no
// characters outside those classes. Go's regexp has no lookaheads, so
// the original pattern is expressed procedurally.
func isStrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit && hasSymbol
}
