// Package constant provides a node behavior that emits a fixed value.
package constant

import (
	"context"
	"errors"
)

const OutputHandle = "out"

// Behavior emits its configured value on the "out" handle. Constant nodes
// have no inputs, so they always land in the first execution level.
type Behavior struct {
	id    string
	value any
}

func NewBehavior(id string, properties map[string]any) (*Behavior, error) {
	value, ok := properties["value"]
	if !ok {
		return nil, errors.New("missing required property 'value'")
	}

	return &Behavior{id: id, value: value}, nil
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "constant"
}

func (b *Behavior) Execute(_ context.Context, _ map[string]any, _ map[string]any) (map[string]any, error) {
	return map[string]any{OutputHandle: b.value}, nil
}
