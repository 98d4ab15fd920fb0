package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrMissingField = errors.New("missing required field")
	ErrStorage      = errors.New("storage failure")
)

type AppError struct {
	Err     error    // sentinel kind
	Message string   // Human-readable error message
	Fields  []string // Optional: fields causing the error
	Cause   error    // Optional: underlying error (storage failures)
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel kind and the underlying cause, so
// errors.Is works against either.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// MissingField reports that one or more required fields were absent or falsy.
func MissingField(fields ...string) *AppError {
	return &AppError{
		Err:     ErrMissingField,
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// StorageFailure wraps an error raised by the storage engine during op.
// HTTP handlers never show the cause to clients.
func StorageFailure(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: op + " failed",
		Cause:   err,
	}
}
