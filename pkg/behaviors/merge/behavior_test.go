package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FlattensMappings(t *testing.T) {
	behavior := NewBehavior("m-1")

	output, err := behavior.Execute(context.Background(), map[string]any{
		"first":  map[string]any{"a": 1},
		"second": map[string]any{"b": 2},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, output["out"])
}

func TestMerge_ScalarsKeyedByHandle(t *testing.T) {
	behavior := NewBehavior("m-1")

	output, err := behavior.Execute(context.Background(), map[string]any{
		"first":  "alpha",
		"second": 2,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"first": "alpha", "second": 2}, output["out"])
}

func TestMerge_LaterHandleWins(t *testing.T) {
	behavior := NewBehavior("m-1")

	output, err := behavior.Execute(context.Background(), map[string]any{
		"first":  map[string]any{"key": "from-first"},
		"second": map[string]any{"key": "from-second"},
	}, nil)

	require.NoError(t, err)
	// Handles merge in name order, so "second" overwrites "first".
	assert.Equal(t, map[string]any{"key": "from-second"}, output["out"])
}

func TestMerge_NoInputs(t *testing.T) {
	behavior := NewBehavior("m-1")

	output, err := behavior.Execute(context.Background(), map[string]any{}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, output["out"])
}
