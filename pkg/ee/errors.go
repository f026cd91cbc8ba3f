package ee

import (
	"errors"
	"fmt"
)

// Sentinel errors for context lifecycle operations.
var (
	// ErrInvalidContext indicates a nil, zero-value or already exited Context
	// was passed to an operation. The validity tag did not match.
	ErrInvalidContext = errors.New("invalid library context")

	// ErrInvalidID indicates WithID was given an empty identifier.
	ErrInvalidID = errors.New("context ID cannot be empty")
)

// ContextError wraps an error with the operation and context it occurred in.
type ContextError struct {
	// ContextID is the identifier of the context, empty if unknown.
	ContextID string
	// Op is the operation that failed ("init", "exit", "set_debug_callback").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ContextError) Error() string {
	if e.ContextID == "" {
		return fmt.Sprintf("ee: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ee: %s context %s: %v", e.Op, e.ContextID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ContextError) Unwrap() error {
	return e.Err
}
