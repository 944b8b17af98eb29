// Package persistence provides standardized error types for archive operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound indicates no archived record exists for the id.
	ErrRecordNotFound = errors.New("execution record not found")

	// ErrRecordNotTerminal indicates an attempt to archive a record that has
	// not reached a terminal status.
	ErrRecordNotTerminal = errors.New("execution record is not terminal")
)

// RecordError wraps archive errors with operation context.
type RecordError struct {
	Op          string
	ExecutionID string
	Err         error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s operation failed for execution %s: %v", e.Op, e.ExecutionID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecordError creates a new archive error with context.
func NewRecordError(op, executionID string, err error) *RecordError {
	return &RecordError{
		Op:          op,
		ExecutionID: executionID,
		Err:         err,
	}
}

// IsRecordNotFound checks if an error indicates a missing archive entry.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
