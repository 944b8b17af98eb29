package execution

import (
	"sort"
	"sync"
	"time"

	"github.com/gridflow-io/gridflow/pkg/models"
)

// Tracker is the process-wide registry of active and historical runs. The run
// table is the only state shared across concurrent runs; each record is
// guarded by its own mutex so all mutations for a given execution id are
// serialized.
type Tracker struct {
	mu   sync.RWMutex
	runs map[string]*trackedRun
}

type trackedRun struct {
	mu     sync.Mutex
	record *models.ExecutionRecord
}

func NewTracker() *Tracker {
	return &Tracker{
		runs: make(map[string]*trackedRun),
	}
}

// Start creates the pending record for a new run. At most one record exists
// per execution id.
func (t *Tracker) Start(executionID, graphID string, totalNodes int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.runs[executionID]; exists {
		return ErrExecutionExists
	}

	t.runs[executionID] = &trackedRun{
		record: &models.ExecutionRecord{
			ExecutionID:   executionID,
			GraphID:       graphID,
			Status:        models.ExecutionStatusPending,
			TotalNodes:    totalNodes,
			ErrorMessages: make(map[string]string),
			StartedAt:     time.Now().UTC(),
		},
	}

	return nil
}

// MarkRunning transitions a pending run to running and records the levels
// computed for it.
func (t *Tracker) MarkRunning(executionID string, levels []models.ExecutionLevel) error {
	run, ok := t.run(executionID)
	if !ok {
		return ErrExecutionNotFound
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	if run.record.Status.Terminal() {
		return ErrExecutionTerminal
	}

	run.record.Status = models.ExecutionStatusRunning

	run.record.ExecutionOrder = make([]models.ExecutionLevel, len(levels))
	for i, level := range levels {
		run.record.ExecutionOrder[i] = append(models.ExecutionLevel(nil), level...)
	}

	return nil
}

// RecordNode accounts for one terminated node. A nil nodeErr counts the node
// as executed; otherwise it counts as failed and the message is recorded
// against the node. Counters only grow until the run is terminal.
func (t *Tracker) RecordNode(executionID, nodeID string, nodeErr error) error {
	run, ok := t.run(executionID)
	if !ok {
		return ErrExecutionNotFound
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	if run.record.Status.Terminal() {
		return ErrExecutionTerminal
	}

	if nodeErr != nil {
		run.record.FailedNodes++
		run.record.ErrorMessages[nodeID] = nodeErr.Error()

		return nil
	}

	run.record.ExecutedNodes++

	return nil
}

// RecordSkipped accounts for a node that was never attempted because an
// upstream dependency failed.
func (t *Tracker) RecordSkipped(executionID, nodeID, reason string) error {
	run, ok := t.run(executionID)
	if !ok {
		return ErrExecutionNotFound
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	if run.record.Status.Terminal() {
		return ErrExecutionTerminal
	}

	run.record.SkippedNodes++
	run.record.ErrorMessages[nodeID] = reason

	return nil
}

// Finish moves a run to its terminal status. The record is frozen afterwards:
// any later update returns ErrExecutionTerminal.
func (t *Tracker) Finish(executionID string, status models.ExecutionStatus, runErr string) error {
	run, ok := t.run(executionID)
	if !ok {
		return ErrExecutionNotFound
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	if run.record.Status.Terminal() {
		return ErrExecutionTerminal
	}

	finishedAt := time.Now().UTC()
	run.record.Status = status
	run.record.Error = runErr
	run.record.FinishedAt = &finishedAt

	return nil
}

// Get returns a deep snapshot of the record for the given execution id, so
// repeated queries for a terminal run return identical data and callers can
// poll without side effects. Unknown ids yield (nil, false).
func (t *Tracker) Get(executionID string) (*models.ExecutionRecord, bool) {
	run, ok := t.run(executionID)
	if !ok {
		return nil, false
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	return run.record.Clone(), true
}

// ListActive returns the ids of all runs that have not reached a terminal
// status, sorted for deterministic output.
func (t *Tracker) ListActive() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	active := make([]string, 0)

	for id, run := range t.runs {
		run.mu.Lock()
		terminal := run.record.Status.Terminal()
		run.mu.Unlock()

		if !terminal {
			active = append(active, id)
		}
	}

	sort.Strings(active)

	return active
}

// Prune drops terminal records older than the retention window and returns
// how many were removed. Active runs are never pruned.
func (t *Tracker) Prune(olderThan time.Duration) int {
	cutoff := time.Now().UTC().Add(-olderThan)

	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := 0

	for id, run := range t.runs {
		run.mu.Lock()
		expired := run.record.Status.Terminal() &&
			run.record.FinishedAt != nil &&
			run.record.FinishedAt.Before(cutoff)
		run.mu.Unlock()

		if expired {
			delete(t.runs, id)

			pruned++
		}
	}

	return pruned
}

func (t *Tracker) run(executionID string) (*trackedRun, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	run, ok := t.runs[executionID]

	return run, ok
}
