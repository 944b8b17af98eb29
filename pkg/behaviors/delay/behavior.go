// Package delay provides a behavior that waits before passing its input through.
package delay

import (
	"context"
	"fmt"
	"time"
)

const (
	InputHandle  = "in"
	OutputHandle = "out"

	defaultDurationMs = 1000
)

// Behavior sleeps for the configured duration, then forwards its input. The
// wait honors context cancellation, which the engine surfaces as an ordinary
// node failure.
type Behavior struct {
	id       string
	duration time.Duration
}

func NewBehavior(id string, properties map[string]any) (*Behavior, error) {
	durationMs := defaultDurationMs

	if raw, ok := properties["duration_ms"]; ok {
		switch v := raw.(type) {
		case int:
			durationMs = v
		case float64:
			durationMs = int(v)
		default:
			return nil, fmt.Errorf("property 'duration_ms' is %T, expected number", raw)
		}
	}

	if durationMs < 0 {
		return nil, fmt.Errorf("property 'duration_ms' must not be negative, got %d", durationMs)
	}

	return &Behavior{
		id:       id,
		duration: time.Duration(durationMs) * time.Millisecond,
	}, nil
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "delay"
}

func (b *Behavior) Execute(ctx context.Context, inputs map[string]any, _ map[string]any) (map[string]any, error) {
	timer := time.NewTimer(b.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("delay interrupted: %w", ctx.Err())
	case <-timer.C:
	}

	return map[string]any{
		OutputHandle: inputs[InputHandle],
		"waited_ms":  b.duration.Milliseconds(),
	}, nil
}
