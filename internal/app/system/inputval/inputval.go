// Package inputval provides form input validation using waffle/pantry/validate.
//
// Define an input struct with validate tags, decode the request body into it,
// and call Validate (first failure) or ValidateAll (every failing field).
//
// Example:
//
//	type CategoryInput struct {
//	    Name string `json:"name" validate:"required,max=100" label:"Name"`
//	    Slug string `json:"slug" validate:"slug" label:"Slug"`
//	}
//
//	if res := inputval.ValidateAll(in); res.HasErrors() {
//	    jsonutil.ValidationError(w, "validation failed", res.FieldErrors())
//	    return
//	}
package inputval

import (
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratasite/internal/app/system/apperr"
	"github.com/dalemusser/stratasite/internal/app/system/slug"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// All returns all error messages joined with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// FieldErrors converts the result into apperr field errors, keeping only the
// first message per field.
func (r *Result) FieldErrors() []apperr.FieldError {
	seen := make(map[string]bool, len(r.Errors))
	out := make([]apperr.FieldError, 0, len(r.Errors))
	for _, e := range r.Errors {
		if seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		out = append(out, apperr.FieldError{Field: e.Field, Message: e.Message})
	}
	return out
}

// Add appends a failure found outside struct tags (cross-field rules).
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Label: field, Message: message})
}

var (
	firstValidator *validate.Validator
	firstOnce      sync.Once

	allValidator *validate.Validator
	allOnce      sync.Once
)

func registerRules(v *validate.Validator) {
	// httpurl: validates that string is a valid http/https URL
	v.RegisterRuleFunc("httpurl", func(value any) bool {
		if s, ok := value.(string); ok {
			return s == "" || IsValidHTTPURL(s)
		}
		return false
	}, "httpurl")

	// objectid: validates that string is a valid MongoDB ObjectID hex
	v.RegisterRuleFunc("objectid", func(value any) bool {
		if s, ok := value.(string); ok {
			return IsValidObjectID(s)
		}
		return false
	}, "objectid")

	// slug: empty or a well-formed slug
	v.RegisterRuleFunc("slug", func(value any) bool {
		if s, ok := value.(string); ok {
			return s == "" || slug.IsValid(s)
		}
		return false
	}, "slug")
}

// getValidator returns the singleton validator that stops at the first failure.
func getValidator() *validate.Validator {
	firstOnce.Do(func() {
		firstValidator = validate.New(validate.WithStopOnFirstError())
		registerRules(firstValidator)
	})
	return firstValidator
}

// getAllValidator returns the singleton validator that reports every failure.
func getAllValidator() *validate.Validator {
	allOnce.Do(func() {
		allValidator = validate.New()
		registerRules(allValidator)
	})
	return allValidator
}

// Validate validates a struct and returns a Result with user-friendly errors.
// The struct should have `validate` tags for rules and optional `label` tags
// for user-friendly field names.
//
// Supported validation rules (from pantry/validate):
//   - required: field must not be empty
//   - email: field must be a valid email address
//   - oneof=a b c: field must be one of the specified values
//   - timezone: field must be a valid IANA time zone
//   - min=N: string length or numeric value must be >= N
//   - max=N: string length or numeric value must be <= N
//
// Custom validation rules (registered by this package):
//   - httpurl: field must be empty or a valid http:// or https:// URL
//   - objectid: field must be a valid MongoDB ObjectID hex string
//   - slug: field must be empty or a well-formed slug
func Validate(s any) *Result {
	return run(getValidator(), s)
}

// ValidateAll is Validate without stopping at the first failure: every
// failing field is reported, so a form can show all problems at once.
func ValidateAll(s any) *Result {
	return run(getAllValidator(), s)
}

func run(v *validate.Validator, s any) *Result {
	result := &Result{}

	err := v.Struct(s)
	if err == nil {
		return result
	}

	// Get field labels from struct tags
	labels := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}

			msg := formatMessage(label, e.Rule, e.Param)
			result.Errors = append(result.Errors, FieldError{
				Field:   e.Field,
				Label:   label,
				Message: msg,
			})
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// Get the field name (use json tag if available)
		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		// Get the label
		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels
}

// formatMessage creates a user-friendly message for a validation rule.
func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "timezone":
		return label + " must be a valid time zone."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "slug":
		return label + " may only contain lower-case letters, digits and single hyphens."
	case "httpurl":
		return label + " must be a valid URL starting with http:// or https://."
	case "objectid":
		return label + " is not a valid ID."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail checks if the given string has a valid email format.
//
// This function uses Go's net/mail.ParseAddress for RFC 5322 compliant validation.
// RFC 5322 defines the Internet Message Format, including email address syntax.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	// net/mail.ParseAddress provides RFC 5322 compliant validation.
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	// ParseAddress accepts "Name <email>" format, so verify the address
	// matches what we passed in (just the email part).
	return addr.Address == email
}

// IsValidHTTPURL checks if the given string is a valid http:// or https:// URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsValidObjectID checks if the given string is a valid MongoDB ObjectID hex.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
