// Package validation provides request validation for boxtrace API types.
//
// It wraps go-playground/validator with the two domain formats every request
// carries: ISO 6346 container numbers (validated on shape only, 4 letters +
// 7 digits, after normalization) and 5-character UN/LOCODE port codes.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	containerNumberPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)
	portCodePattern        = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}$`)
)

// ValidationError represents a single validation error with field-level details.
type ValidationError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Message describes why the validation failed
	Message string `json:"message"`

	// Value is the invalid value that caused the error (optional)
	Value interface{} `json:"value,omitempty"`
}

// ValidationResult represents the complete result of a validation operation.
type ValidationResult struct {
	// Valid is true if validation passed, false otherwise
	Valid bool `json:"valid"`

	// Errors contains all validation errors found (empty if Valid is true)
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validator validates boxtrace request structs. Use the `containernum` and
// `unlocode` tags on string fields for the domain formats.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a Validator with the domain formats registered.
func New() *Validator {
	v := validator.New()

	// Registration only fails for a nil function or empty tag.
	_ = v.RegisterValidation("containernum", func(fl validator.FieldLevel) bool {
		normalized := strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String()))
		return containerNumberPattern.MatchString(normalized)
	})
	_ = v.RegisterValidation("unlocode", func(fl validator.FieldLevel) bool {
		return portCodePattern.MatchString(strings.ToUpper(fl.Field().String()))
	})

	return &Validator{structValidator: v}
}

// ValidateStruct validates any tagged struct and reports field-level errors.
func (v *Validator) ValidateStruct(s interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	err := v.structValidator.Struct(s)
	if err == nil {
		return result
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "unknown",
			Message: err.Error(),
		})
		return result
	}

	result.Valid = false
	for _, fieldErr := range validationErrors {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fieldErr.Field(),
			Message: messageFor(fieldErr),
			Value:   fieldErr.Value(),
		})
	}
	return result
}

// FieldErrors flattens a result into the field->message map used by API
// error responses.
func (r *ValidationResult) FieldErrors() map[string]string {
	if r.Valid {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = e.Message
	}
	return out
}

func messageFor(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "field is required"
	case "containernum":
		return "must be a valid container number: 4 letters followed by 7 digits"
	case "unlocode":
		return "must be a 5-character UN/LOCODE (e.g. USLAX)"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}
