// Package apperr defines the typed errors that services return to callers.
//
// Every expected business outcome (missing entity, slug collision, invalid
// input, failed validation, rate limit) is an *Error with a Kind. Unexpected
// persistence failures are wrapped with Database so handlers can log them and
// answer with an opaque 500.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Kind is the closed set of error categories surfaced to callers.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindBadRequest      Kind = "bad_request"
	KindValidation      Kind = "validation"
	KindTooManyRequests Kind = "too_many_requests"
	KindDatabase        Kind = "database"
)

// FieldError names one offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a typed service error.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError // every offending field, for KindValidation
	Err     error        // underlying cause, never shown to end users
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if len(e.Fields) > 0 {
		names := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			names[i] = f.Field
		}
		return e.Message + " (" + strings.Join(names, ", ") + ")"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing entity, category, or submission.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Conflict reports a collision, such as an explicitly chosen slug already in use.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// BadRequest reports structurally invalid input.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// Validation reports field-level failures. fields lists all of them.
func Validation(msg string, fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// TooManyRequests reports a rate limit rejection.
func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}

// Database wraps an unexpected persistence failure. op names the operation
// for the log line.
func Database(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: op, Err: err}
}

// KindOf returns the Kind of err. Errors that are not *Error are treated as
// database failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatabase
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
