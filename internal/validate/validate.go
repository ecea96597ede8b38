// Package validate holds the pure field-validation rules for catalog
// item drafts and registration forms. Rules run in a fixed field order;
// within a field the checks short-circuit: presence first, then format,
// then length bounds.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Failure aggregates the field errors that blocked a submission. The
// individual messages are surfaced to the user separately; the Failure
// itself tells the caller why the submission never reached the backend.
type Failure struct {
	Errors []FieldError
}

func (e *Failure) Error() string {
	return fmt.Sprintf("submission blocked by %d validation error(s)", len(e.Errors))
}

var alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)

// CatalogItemInput carries the raw draft fields checked before a catalog
// item submission.
type CatalogItemInput struct {
	Name        string
	Description string
	Category    string
	Price       string
}

// CatalogItem validates a catalog item draft. Errors come back in field
// order: name, description, category, price. An empty result means the
// draft may be submitted.
func CatalogItem(in CatalogItemInput) []FieldError {
	var errs []FieldError

	errs = appendTextField(errs, "name", in.Name, textRule{
		required:  "Product name is required.",
		badFormat: "Product name must contain only alphanumeric characters.",
		maxLen:    100,
		tooLong:   "Product name must be a maximum of 100 characters.",
	})
	errs = appendTextField(errs, "description", in.Description, textRule{
		required:  "Description is required.",
		badFormat: "Description must contain only alphanumeric characters.",
		maxLen:    255,
		tooLong:   "Description must be a maximum of 255 characters.",
	})
	errs = appendTextField(errs, "category", in.Category, textRule{
		required:  "Category is required.",
		badFormat: "Category must contain only alphanumeric characters.",
		maxLen:    100,
		tooLong:   "Category must be a maximum of 100 characters.",
	})

	switch {
	case in.Price == "":
		errs = append(errs, FieldError{Field: "price", Message: "Price is required."})
	case !isFiniteNumber(in.Price):
		errs = append(errs, FieldError{Field: "price", Message: "Price must be a valid number."})
	}

	return errs
}

type textRule struct {
	required  string
	badFormat string
	maxLen    int
	tooLong   string
}

func appendTextField(errs []FieldError, field, value string, r textRule) []FieldError {
	switch {
	case value == "":
		return append(errs, FieldError{Field: field, Message: r.required})
	case !alphanumeric.MatchString(value):
		return append(errs, FieldError{Field: field, Message: r.badFormat})
	case len(value) > r.maxLen:
		return append(errs, FieldError{Field: field, Message: r.tooLong})
	}
	return errs
}

func isFiniteNumber(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Messages flattens a list of field errors into user-facing strings.
func Messages(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}
