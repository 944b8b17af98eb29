package models

import (
	"maps"
	"sync"
	"time"
)

// ExecutionLevel is an ordered set of node IDs that may run concurrently.
// Levels themselves are strictly ordered: level k+1 may not start until every
// node in level k has terminated.
type ExecutionLevel []string

// ExecutionStatus is the lifecycle state of a run. It is strictly monotonic:
// pending -> running -> completed|failed|cancelled, never backwards.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status is a terminal value.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// ExecutionContext is the per-run mutable store of accumulated node outputs
// and shared variables. Exactly one context exists per run and is owned by
// that run; it is never shared across concurrent runs. Output access is
// synchronized because sibling nodes in one level terminate concurrently.
type ExecutionContext struct {
	ExecutionID string         `json:"execution_id"`
	GraphID     string         `json:"graph_id"`
	Variables   map[string]any `json:"variables,omitempty"`

	mu          sync.RWMutex
	nodeOutputs map[string]map[string]any
}

// NewExecutionContext creates the context for one run.
func NewExecutionContext(executionID, graphID string, variables map[string]any) *ExecutionContext {
	if variables == nil {
		variables = make(map[string]any)
	}

	return &ExecutionContext{
		ExecutionID: executionID,
		GraphID:     graphID,
		Variables:   variables,
		nodeOutputs: make(map[string]map[string]any),
	}
}

// Output returns the output mapping produced by the given node, if that node
// has terminated successfully.
func (c *ExecutionContext) Output(nodeID string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out, ok := c.nodeOutputs[nodeID]

	return out, ok
}

// SetOutput records a node's produced output. Later calls for the same node
// merge into the existing mapping.
func (c *ExecutionContext) SetOutput(nodeID string, output map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.nodeOutputs[nodeID]
	if !ok {
		existing = make(map[string]any, len(output))
		c.nodeOutputs[nodeID] = existing
	}

	maps.Copy(existing, output)
}

// NodeOutputs returns a copy of all recorded node outputs.
func (c *ExecutionContext) NodeOutputs() map[string]map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	outputs := make(map[string]map[string]any, len(c.nodeOutputs))
	for nodeID, out := range c.nodeOutputs {
		outputs[nodeID] = maps.Clone(out)
	}

	return outputs
}

// ExecutionRecord is the tracked bookkeeping for one run. Counters grow
// monotonically until the record reaches a terminal status, after which it is
// frozen.
type ExecutionRecord struct {
	ExecutionID    string            `json:"execution_id"`
	GraphID        string            `json:"graph_id"`
	Status         ExecutionStatus   `json:"status"`
	TotalNodes     int               `json:"total_nodes"`
	ExecutedNodes  int               `json:"executed_nodes"`
	FailedNodes    int               `json:"failed_nodes"`
	SkippedNodes   int               `json:"skipped_nodes,omitempty"`
	ExecutionOrder []ExecutionLevel  `json:"execution_order,omitempty"`
	ErrorMessages  map[string]string `json:"error_messages,omitempty"`
	Error          string            `json:"error,omitempty"` // Run-level structural error, no node attributable
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     *time.Time        `json:"finished_at,omitempty"`
}

// Clone returns a deep copy of the record so callers can hand out snapshots
// without exposing tracker-owned state.
func (r *ExecutionRecord) Clone() *ExecutionRecord {
	clone := *r

	clone.ExecutionOrder = make([]ExecutionLevel, len(r.ExecutionOrder))
	for i, level := range r.ExecutionOrder {
		clone.ExecutionOrder[i] = append(ExecutionLevel(nil), level...)
	}

	clone.ErrorMessages = maps.Clone(r.ErrorMessages)

	if r.FinishedAt != nil {
		finishedAt := *r.FinishedAt
		clone.FinishedAt = &finishedAt
	}

	return &clone
}

// Progress returns the executed-to-total node ratio for status queries.
func (r *ExecutionRecord) Progress() float64 {
	if r.TotalNodes == 0 {
		return 0
	}

	return float64(r.ExecutedNodes) / float64(r.TotalNodes)
}
