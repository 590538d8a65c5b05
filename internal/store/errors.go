package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrInvalidEntity is returned when a task fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransform is returned when a caller-supplied transform fails or
	// leaves a task in an invalid state. The store is left unchanged.
	ErrTransform = errors.New("transform failed")

	// ErrIndexOutOfRange is returned when a publish references a position
	// the store does not hold.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Operation string // The operation that failed (e.g., "add", "apply", "publish")
	Index     int    // Position of the offending task, -1 when not applicable
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s operation on task %d failed: %v", e.Operation, e.Index, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given operation, index, and wrapped error.
func NewStoreError(operation string, index int, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Index:     index,
		Err:       err,
	}
}
