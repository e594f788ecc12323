package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("no saved data")
	ErrInvalidKey  = errors.New("invalid financial year key")
	ErrInvalidData = errors.New("invalid data")
)

// Error is a storage operation error with the financial year it concerned
type Error struct {
	Op        string // Operation that failed (e.g., "Load", "Save")
	Key       string // Financial year label
	Err       error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s failed for %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a storage Error
func NewError(op, key string, err error, retryable bool) *Error {
	return &Error{Op: op, Key: key, Err: err, Retryable: retryable}
}

// IsNotFound reports whether err means nothing has been saved for the key
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether err came from a transient filesystem failure
func IsRetryable(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Retryable
}
