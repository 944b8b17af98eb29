// Package log provides a structured logging node behavior.
package log

import (
	"context"
	"log/slog"
	"time"
)

const (
	InputHandle  = "in"
	OutputHandle = "out"
)

// Behavior logs its configured message plus whatever arrived on the "in"
// handle, then forwards the input unchanged.
type Behavior struct {
	id      string
	message string
	level   slog.Level
	logger  *slog.Logger
}

func NewBehavior(id string, properties map[string]any, logger *slog.Logger) *Behavior {
	message, _ := properties["message"].(string)

	level := slog.LevelInfo
	if raw, ok := properties["level"].(string); ok {
		switch raw {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Behavior{
		id:      id,
		message: message,
		level:   level,
		logger:  logger,
	}
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "log"
}

func (b *Behavior) Execute(ctx context.Context, inputs map[string]any, _ map[string]any) (map[string]any, error) {
	b.logger.Log(ctx, b.level, b.message,
		slog.String("node_id", b.id),
		slog.Any("input", inputs[InputHandle]),
	)

	return map[string]any{
		OutputHandle: inputs[InputHandle],
		"logged_at":  time.Now().UTC().Format(time.RFC3339),
	}, nil
}
