package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the services
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries an error kind together with the HTTP status it maps to.
// errors.Is(err, ErrNotFound) and friends work through Unwrap.
type Error struct {
	StatusCode int
	kind       error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func (e *Error) Error() string {
	msg := e.kind.Error()
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// Retryable reports whether the caller may safely retry the operation
func (e *Error) Retryable() bool {
	return errors.Is(e.kind, ErrTransactionFailed)
}

// NewNotFound reports an unresolved reference to entity id
func NewNotFound(entity, id string) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		kind:       ErrNotFound,
		Details:    fmt.Sprintf("%s %q does not exist", entity, id),
	}
}

func NewValidation(field, reason string) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		kind:       ErrValidation,
		Details:    fmt.Sprintf("invalid field %s: %s", field, reason),
		Field:      field,
	}
}

func NewUnauthenticated(details string) *Error {
	return &Error{
		StatusCode: http.StatusUnauthorized,
		kind:       ErrUnauthenticated,
		Details:    details,
	}
}

// NewTransactionFailed reports a rolled back unit of work
func NewTransactionFailed(operation string, cause error) *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		kind:       ErrTransactionFailed,
		Details:    fmt.Sprintf("transaction rolled back during %s", operation),
		Cause:      cause,
	}
}

// NewUpstreamUnavailable reports a failed call to a persistence or identity collaborator
func NewUpstreamUnavailable(operation string, cause error) *Error {
	return &Error{
		StatusCode: http.StatusServiceUnavailable,
		kind:       ErrUpstreamUnavailable,
		Details:    fmt.Sprintf("failed to %s", operation),
		Cause:      cause,
	}
}

// Upstream wraps cause as UpstreamUnavailable unless it already carries a kind
func Upstream(operation string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return cause
	}
	return NewUpstreamUnavailable(operation, cause)
}

// StatusCode returns the HTTP status for err, 500 for unclassified errors
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

func IsTransactionFailed(err error) bool {
	return errors.Is(err, ErrTransactionFailed)
}

func IsUpstreamUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
