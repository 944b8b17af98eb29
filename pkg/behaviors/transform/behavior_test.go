package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_RendersInputsAndVariables(t *testing.T) {
	behavior, err := NewBehavior("t-1", map[string]any{
		"expression": `{{.inputs.in}} ({{.variables.env}})`,
	})
	require.NoError(t, err)

	output, err := behavior.Execute(
		context.Background(),
		map[string]any{"in": "report"},
		map[string]any{"env": "staging"},
	)

	require.NoError(t, err)
	assert.Equal(t, "report (staging)", output["out"])
}

func TestTransform_JSONResult(t *testing.T) {
	behavior, err := NewBehavior("t-1", map[string]any{
		"expression": `{"value": "{{.inputs.in}}"}`,
	})
	require.NoError(t, err)

	output, err := behavior.Execute(context.Background(), map[string]any{"in": "x"}, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "x"}, output["out"])
}

func TestTransform_MissingExpression(t *testing.T) {
	_, err := NewBehavior("t-1", map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expression")
}

func TestTransform_BadTemplate(t *testing.T) {
	behavior, err := NewBehavior("t-1", map[string]any{"expression": "{{.broken"})
	require.NoError(t, err)

	_, err = behavior.Execute(context.Background(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transformation failed")
}
