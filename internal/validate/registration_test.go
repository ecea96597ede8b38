package validate

import "testing"

func validRegistration() RegistrationInput {
	return RegistrationInput{
		UserName:        "shopper1",
		FullName:        "Jane Shopper",
		Email:           "jane@example.com",
		PhoneNumber:     "5551234567",
		Password:        "passw0rd!",
		ConfirmPassword: "passw0rd!",
	}
}

func TestRegistrationValid(t *testing.T) {
	if errs := Registration(validRegistration()); len(errs) != 0 {
		t.Errorf("Registration returned errors for a valid form: %v", errs)
	}
}

func TestRegistrationFieldRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegistrationInput)
		field   string
		message string
	}{
		{"missing username", func(in *RegistrationInput) { in.UserName = "" }, "userName", "Username is required"},
		{"missing full name", func(in *RegistrationInput) { in.FullName = "" }, "name", "Full name is required"},
		{"digits in full name", func(in *RegistrationInput) { in.FullName = "Jane 2" }, "name", "Full name should contain alphabets only"},
		{"bad email", func(in *RegistrationInput) { in.Email = "jane@nodot" }, "email", "Invalid email format"},
		{"short phone", func(in *RegistrationInput) { in.PhoneNumber = "12345" }, "phoneNumber", "Invalid phone number format, please ensure a 10 digit number"},
		{"phone with dashes", func(in *RegistrationInput) { in.PhoneNumber = "555-123-4567" }, "phoneNumber", "Invalid phone number format, please ensure a 10 digit number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			errs := Registration(in)
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field || errs[0].Message != tt.message {
				t.Errorf("got {%s %q}, want {%s %q}", errs[0].Field, errs[0].Message, tt.field, tt.message)
			}
		})
	}
}

func TestPasswordComplexity(t *testing.T) {
	weak := []string{
		"short1!",    // under 8 chars
		"password!",  // no digit
		"12345678!",  // no letter
		"passw0rds",  // no symbol
		"pass w0rd!", // space outside the allowed classes
	}
	for _, p := range weak {
		in := validRegistration()
		in.Password = p
		in.ConfirmPassword = p
		errs := Registration(in)
		if len(errs) != 1 || errs[0].Field != "password" {
			t.Errorf("Password %q: got %v, want single password error", p, errs)
		}
	}

	strong := []string{"passw0rd!", "A1@aaaaa", "x9#LongerPass"}
	for _, p := range strong {
		in := validRegistration()
		in.Password = p
		in.ConfirmPassword = p
		if errs := Registration(in); len(errs) != 0 {
			t.Errorf("Password %q: got %v, want no errors", p, errs)
		}
	}
}

// TestConfirmPasswordIndependent verifies the mismatch rule fires even
// when the password field already failed its own complexity check.
func TestConfirmPasswordIndependent(t *testing.T) {
	in := validRegistration()
	in.Password = "weak"
	in.ConfirmPassword = "different"

	errs := Registration(in)
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}
	if errs[0].Field != "password" {
		t.Errorf("errs[0].Field = %q, want password", errs[0].Field)
	}
	if errs[1].Field != "confirmPassword" || errs[1].Message != "Passwords do not match" {
		t.Errorf("errs[1] = %v, want confirm-password mismatch", errs[1])
	}
}

func TestRegistrationFieldOrder(t *testing.T) {
	errs := Registration(RegistrationInput{})
	want := []string{"userName", "name", "email", "phoneNumber", "password"}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for i, f := range want {
		if errs[i].Field != f {
			t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, f)
		}
	}
}
