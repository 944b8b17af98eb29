package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogForwardsInput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	behavior := NewBehavior("log-1", map[string]any{"message": "node reached"}, logger)

	output, err := behavior.Execute(context.Background(), map[string]any{"in": "payload"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "payload", output["out"])
	assert.NotEmpty(t, output["logged_at"])
	assert.Contains(t, buf.String(), "node reached")
	assert.Contains(t, buf.String(), "log-1")
}

func TestLogLevelFromProperties(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	info := NewBehavior("log-info", map[string]any{"message": "quiet", "level": "info"}, logger)
	warn := NewBehavior("log-warn", map[string]any{"message": "loud", "level": "warn"}, logger)

	_, err := info.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	_, err = warn.Execute(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestLogMissingInputStaysNil(t *testing.T) {
	behavior := NewBehavior("log-1", nil, slog.New(slog.DiscardHandler))

	output, err := behavior.Execute(context.Background(), map[string]any{}, nil)

	require.NoError(t, err)
	assert.Nil(t, output["out"])
}
