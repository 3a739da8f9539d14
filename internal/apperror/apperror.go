// Package apperror defines the domain error taxonomy shared by every layer.
//
// The service layer produces these errors; the HTTP layer translates them to
// status codes. Nothing in between needs to know about HTTP at all — handlers
// classify any error with errors.Is and extract details with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every AppError wraps exactly one of these, so callers can
// classify any error from the service layer with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("duplicate key")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError is a single field-level violation: which field, and why.
// Validation and duplicate-key errors carry a list of these so the client
// sees every problem at once, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is a typed application error.
//
// Err classifies the error (one of the sentinels above), Message is
// human-readable, Resource names the entity kind for not-found errors, and
// Fields holds per-field violations for validation/duplicate errors.
type AppError struct {
	Err      error
	Message  string
	Resource string
	Fields   []FieldError
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource of the given kind does not exist.
// The kind ("student", "grade", "user") distinguishes which target is missing
// when an operation touches more than one resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:      ErrNotFound,
		Message:  fmt.Sprintf("%s not found with id %s", resource, id),
		Resource: resource,
	}
}

// IsNotFoundOf reports whether err is a NotFound error for the given resource
// kind. Used where "student missing" and "grade missing" must be told apart.
func IsNotFoundOf(err error, resource string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) &&
		errors.Is(err, ErrNotFound) &&
		appErr.Resource == resource
}

// Validation bundles one or more field violations into a single error.
// The caller is expected to have collected every violated rule first — the
// message list is the contract, never a single opaque string.
func Validation(fields []FieldError) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// ValidationFailed is the single-field shorthand for Validation.
func ValidationFailed(field, message string) *AppError {
	return Validation([]FieldError{{Field: field, Message: message}})
}

// Duplicate reports a natural-key collision (studentId, email, username).
// It carries the offending field so the client can highlight it.
func Duplicate(field, message string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Forbidden reports that the caller's role does not meet the operation's
// requirement. HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized reports a failed or missing authentication — wrong
// credentials, disabled account. HTTP handlers map this to 401. It is
// deliberately vague about WHICH part of the credentials was wrong.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
