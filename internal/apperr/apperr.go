// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap them with context via the constructors below and
// test with errors.Is.
var (
	// ErrValidation marks rejected input (non-positive amount, principal edit
	// below the paid total, missing required field).
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a reference to a debt, person or payment that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransient marks a provider-layer I/O failure. Local state is left
	// untouched when it is returned; retry policy belongs to the caller.
	ErrTransient = errors.New("transient error")
)

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns a not-found error for the given entity and id.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// Transient wraps a provider failure.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}
