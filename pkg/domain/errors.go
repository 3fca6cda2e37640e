package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a point lookup matches no record
	ErrNotFound = errors.New("user not found")

	// ErrMissingIdentifier is returned by mutation paths that require an identifier
	ErrMissingIdentifier = errors.New("user identifier is required")

	// ErrEmptyUpdate is returned when an update carries no fields to change.
	// It is raised before any store call.
	ErrEmptyUpdate = errors.New("update contains no fields")
)

// ValidationError reports a missing or malformed input, raised before any
// store call is issued.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure reported by the underlying store.
// The original error is available via errors.Unwrap.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err unless it is nil or already a StoreError
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
