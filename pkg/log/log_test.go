package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(newHandler(&buf, "debug", "JSON"))
	logger.Debug("graph leveled", slog.Int("levels", 3))

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "graph leveled", entry["msg"])
	assert.Equal(t, float64(3), entry["levels"])
}

func TestNewHandlerTextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(newHandler(&buf, "info", "text"))
	logger.Info("execution started")

	assert.Contains(t, buf.String(), "execution started")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestNewHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(newHandler(&buf, "WARN", ""))
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewHandlerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(newHandler(&buf, "chatty", ""))
	logger.Debug("dropped")
	logger.Info("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
