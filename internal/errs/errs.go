// Package errs defines the error taxonomy shared by service operations.
//
// Services classify failures by wrapping one of the sentinel kinds below;
// HTTP handlers map each kind to a status code at the request boundary.
// The sentinels are stable: errors.Is against them must keep working
// across versions.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range input (caller's fault).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation that is not valid in the entity's
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrPrecondition marks an unmet dependency on another entity's state.
	ErrPrecondition = errors.New("precondition failed")

	// ErrForbidden marks a role mismatch for the authenticated principal.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated marks a request with no valid principal.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Validationf returns a validation error with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf returns a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidStatef returns an invalid-state error with a formatted message.
func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Preconditionf returns a precondition error with a formatted message.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
