// Package graph validates submitted graphs and partitions them into execution levels.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Standard structural errors raised during leveling. Both abort a run before
// any node executes.
var (
	// ErrCyclicGraph indicates no valid execution order exists.
	ErrCyclicGraph = errors.New("graph contains a cycle")

	// ErrUnknownNodeReference indicates an edge references a node id absent
	// from the graph's node set.
	ErrUnknownNodeReference = errors.New("edge references unknown node")

	// ErrDuplicateNodeID indicates two nodes in one graph share an id.
	ErrDuplicateNodeID = errors.New("duplicate node id")
)

// CycleError carries the node ids left unresolved when leveling stalled.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle involving nodes [%s]", strings.Join(e.Remaining, ", "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicGraph
}

// UnknownNodeError carries the offending edge and the missing node id.
type UnknownNodeError struct {
	EdgeID string
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("edge %s references unknown node %s", e.EdgeID, e.NodeID)
}

func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrUnknownNodeReference
}

// IsStructuralError reports whether the error is one of the leveling errors
// that abort a run before execution.
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrCyclicGraph) ||
		errors.Is(err, ErrUnknownNodeReference) ||
		errors.Is(err, ErrDuplicateNodeID)
}
