package execution_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/models"
)

func TestStart_CreatesPendingRecord(t *testing.T) {
	tracker := execution.NewTracker()

	require.NoError(t, tracker.Start("exec-1", "graph-1", 3))

	record, ok := tracker.Get("exec-1")
	require.True(t, ok)
	assert.Equal(t, models.ExecutionStatusPending, record.Status)
	assert.Equal(t, "graph-1", record.GraphID)
	assert.Equal(t, 3, record.TotalNodes)
	assert.Zero(t, record.ExecutedNodes)
	assert.False(t, record.StartedAt.IsZero())
	assert.Nil(t, record.FinishedAt)
}

func TestStart_DuplicateExecutionID(t *testing.T) {
	tracker := execution.NewTracker()

	require.NoError(t, tracker.Start("exec-1", "graph-1", 1))

	err := tracker.Start("exec-1", "graph-2", 1)

	assert.ErrorIs(t, err, execution.ErrExecutionExists)
}

func TestMarkRunning_RecordsExecutionOrder(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 3))

	levels := []models.ExecutionLevel{{"a", "b"}, {"c"}}
	require.NoError(t, tracker.MarkRunning("exec-1", levels))

	record, ok := tracker.Get("exec-1")
	require.True(t, ok)
	assert.Equal(t, models.ExecutionStatusRunning, record.Status)
	assert.Equal(t, levels, record.ExecutionOrder)
}

func TestRecordNode_CountsExecutedAndFailed(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 3))
	require.NoError(t, tracker.MarkRunning("exec-1", []models.ExecutionLevel{{"a", "b", "c"}}))

	require.NoError(t, tracker.RecordNode("exec-1", "a", nil))
	require.NoError(t, tracker.RecordNode("exec-1", "b", errors.New("boom")))
	require.NoError(t, tracker.RecordNode("exec-1", "c", nil))

	record, _ := tracker.Get("exec-1")
	assert.Equal(t, 2, record.ExecutedNodes)
	assert.Equal(t, 1, record.FailedNodes)
	assert.Equal(t, "boom", record.ErrorMessages["b"])
}

func TestRecordSkipped(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 2))

	require.NoError(t, tracker.RecordSkipped("exec-1", "b", "skipped: upstream dependency failed"))

	record, _ := tracker.Get("exec-1")
	assert.Equal(t, 1, record.SkippedNodes)
	assert.Contains(t, record.ErrorMessages["b"], "skipped")
}

func TestFinish_FreezesRecord(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 1))
	require.NoError(t, tracker.RecordNode("exec-1", "a", nil))
	require.NoError(t, tracker.Finish("exec-1", models.ExecutionStatusCompleted, ""))

	// Every mutation after the terminal transition is rejected.
	assert.ErrorIs(t, tracker.RecordNode("exec-1", "a", nil), execution.ErrExecutionTerminal)
	assert.ErrorIs(t, tracker.RecordSkipped("exec-1", "a", "late"), execution.ErrExecutionTerminal)
	assert.ErrorIs(t, tracker.MarkRunning("exec-1", nil), execution.ErrExecutionTerminal)
	assert.ErrorIs(t, tracker.Finish("exec-1", models.ExecutionStatusFailed, "late"), execution.ErrExecutionTerminal)

	record, _ := tracker.Get("exec-1")
	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, 1, record.ExecutedNodes)
	require.NotNil(t, record.FinishedAt)
}

func TestGet_TerminalRecordIsIdempotent(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 1))
	require.NoError(t, tracker.RecordNode("exec-1", "a", nil))
	require.NoError(t, tracker.Finish("exec-1", models.ExecutionStatusCompleted, ""))

	first, ok := tracker.Get("exec-1")
	require.True(t, ok)

	second, ok := tracker.Get("exec-1")
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestGet_SnapshotIsDetached(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-1", "graph-1", 2))

	snapshot, ok := tracker.Get("exec-1")
	require.True(t, ok)

	// Mutating the snapshot must not leak into tracker state.
	snapshot.ErrorMessages["a"] = "tampered"
	snapshot.ExecutedNodes = 99

	record, _ := tracker.Get("exec-1")
	assert.Empty(t, record.ErrorMessages)
	assert.Zero(t, record.ExecutedNodes)
}

func TestGet_UnknownExecution(t *testing.T) {
	tracker := execution.NewTracker()

	record, ok := tracker.Get("ghost")

	assert.False(t, ok)
	assert.Nil(t, record)
}

func TestListActive(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-b", "graph-1", 1))
	require.NoError(t, tracker.Start("exec-a", "graph-1", 1))
	require.NoError(t, tracker.Start("exec-c", "graph-1", 1))
	require.NoError(t, tracker.Finish("exec-c", models.ExecutionStatusFailed, "boom"))

	assert.Equal(t, []string{"exec-a", "exec-b"}, tracker.ListActive())
}

func TestPrune_RemovesExpiredTerminalRuns(t *testing.T) {
	tracker := execution.NewTracker()
	require.NoError(t, tracker.Start("exec-done", "graph-1", 1))
	require.NoError(t, tracker.Finish("exec-done", models.ExecutionStatusCompleted, ""))
	require.NoError(t, tracker.Start("exec-live", "graph-1", 1))

	time.Sleep(5 * time.Millisecond)

	pruned := tracker.Prune(time.Millisecond)

	assert.Equal(t, 1, pruned)

	_, ok := tracker.Get("exec-done")
	assert.False(t, ok)

	_, ok = tracker.Get("exec-live")
	assert.True(t, ok)
}
