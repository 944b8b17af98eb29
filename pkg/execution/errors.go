// Package execution drives graph runs: dispatching nodes level by level and
// tracking per-run bookkeeping.
package execution

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNodeType indicates a node references a type with no
	// registered behavior. It is treated as that node's failure, never as a
	// run abort.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrExecutionExists indicates an execution id was started twice.
	ErrExecutionExists = errors.New("execution already exists")

	// ErrExecutionNotFound indicates no record exists for an execution id.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrExecutionTerminal indicates an update arrived after the record
	// reached a terminal status.
	ErrExecutionTerminal = errors.New("execution already terminal")
)

// NodeExecutionError wraps any failure surfaced while executing one node,
// carrying the node id alongside the underlying cause.
type NodeExecutionError struct {
	NodeID string
	Err    error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s failed: %v", e.NodeID, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// IsUnknownNodeType reports whether the error stems from an unregistered
// node type.
func IsUnknownNodeType(err error) bool {
	return errors.Is(err, ErrUnknownNodeType)
}
