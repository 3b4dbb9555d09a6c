package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a uniqueness violation on insert or update.
	ErrConflict = errors.New("repository: conflict")
	// ErrUnavailable indicates the backing store could not serve the request.
	ErrUnavailable = errors.New("repository: store unavailable")
)

// StoreError wraps a backend failure so callers can classify it as an
// availability problem while retaining the underlying cause.
type StoreError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrUnavailable so errors.Is based mapping works.
func (e *StoreError) Is(target error) bool {
	return target == ErrUnavailable
}

// Unavailable wraps err as a store availability failure.
func Unavailable(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
