// Package apperr provides the error vocabulary shared by services and
// handlers. Services wrap one of the sentinel errors with a user-facing
// message; handlers map the sentinel to an HTTP status with Status and echo
// the message to the client.
package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for programmatic checks with errors.Is.
var (
	// ErrInvalidInput indicates a request that failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or unusable credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is known but not allowed.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a missing resource.
	ErrNotFound = errors.New("not found")
)

type appError struct {
	sentinel error
	message  string
}

func (e *appError) Error() string { return e.message }

func (e *appError) Unwrap() error { return e.sentinel }

// New wraps sentinel with a client-facing message. The message is what the
// API echoes back; the sentinel decides the status code.
func New(sentinel error, message string) error {
	return &appError{sentinel: sentinel, message: message}
}

// Invalid is shorthand for New(ErrInvalidInput, message).
func Invalid(message string) error { return New(ErrInvalidInput, message) }

// Unauthorized is shorthand for New(ErrUnauthorized, message).
func Unauthorized(message string) error { return New(ErrUnauthorized, message) }

// Forbidden is shorthand for New(ErrForbidden, message).
func Forbidden(message string) error { return New(ErrForbidden, message) }

// NotFound is shorthand for New(ErrNotFound, message).
func NotFound(message string) error { return New(ErrNotFound, message) }

// Status maps err to an HTTP status code: 400 for validation failures,
// 401 for bad credentials, 403 for authorization failures, 404 for missing
// resources and 500 for everything else.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
