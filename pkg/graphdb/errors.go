package graphdb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrDimensionMismatch is returned when a query or input vector does not
	// match the store's configured dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNotFound is returned by point lookups that require the row to exist.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when an operation is invoked after Close.
	ErrClosed = errors.New("store is closed")

	// ErrSchemaViolation is returned when the storage layer rejects a write
	// due to a constraint failure.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrInvalidConfig is returned when store configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StoreError wraps errors with operation context.
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("graphdb: %v", e.Err)
	}
	return fmt.Sprintf("graphdb: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
