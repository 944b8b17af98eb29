package constant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant_EmitsValue(t *testing.T) {
	behavior, err := NewBehavior("const-1", map[string]any{"value": "hello"})
	require.NoError(t, err)

	output, err := behavior.Execute(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"out": "hello"}, output)
}

func TestConstant_MissingValue(t *testing.T) {
	_, err := NewBehavior("const-1", map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")
}

func TestFactory_Template(t *testing.T) {
	factory := NewFactory()
	template := factory.Template()

	assert.Equal(t, "constant", template.ID)
	require.NoError(t, template.Validate())
	assert.True(t, template.Properties["value"].Required)
}
