// Package apperr defines the error taxonomy shared by services, stores and handlers.
//
// Every failure surfaced to a caller is one of four kinds:
//   - ErrValidation: bad input shape or value, nothing was written
//   - ErrConflict: a uniqueness rule was violated; the caller may retry with a new identifier
//   - ErrNotFound: the addressed record does not exist
//   - ErrStorage: the persistence collaborator failed
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// Error wraps a kind with the operation and field that produced it.
type Error struct {
	// Op is the operation that failed (e.g. "invoice.Create").
	Op string

	// Kind is one of the sentinel kinds above.
	Kind error

	// Field names the offending input field, if any.
	Field string

	// Message is the human-readable explanation.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind. The cause is matched through Unwrap.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Validation builds an ErrValidation error.
func Validation(op, field, message string) *Error {
	return &Error{Op: op, Kind: ErrValidation, Field: field, Message: message}
}

// Conflict builds an ErrConflict error.
func Conflict(op, field, message string) *Error {
	return &Error{Op: op, Kind: ErrConflict, Field: field, Message: message}
}

// NotFound builds an ErrNotFound error.
func NotFound(op, message string) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Message: message}
}

// Storage wraps a persistence failure. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Op: op, Kind: ErrStorage, Err: err}
}

// KindOf returns the sentinel kind of err, or nil when err is not classified.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Retryable reports whether the caller may retry with a new identifier.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// HTTPStatus maps err to the status code the API layer responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text of err without the operation prefix.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != ErrStorage {
		if appErr.Field != "" {
			return fmt.Sprintf("%s: %s", appErr.Field, appErr.Message)
		}
		if appErr.Message != "" {
			return appErr.Message
		}
	}
	if errors.Is(err, ErrStorage) {
		return "storage failure"
	}
	return err.Error()
}
