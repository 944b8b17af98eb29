// Package uppercase provides a text upper-casing node behavior.
package uppercase

import (
	"context"
	"fmt"
	"strings"
)

const (
	InputHandle  = "in"
	OutputHandle = "out"
)

// Behavior upper-cases the string arriving on the "in" handle.
type Behavior struct {
	id string
}

func NewBehavior(id string) *Behavior {
	return &Behavior{id: id}
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "uppercase"
}

func (b *Behavior) Execute(_ context.Context, inputs map[string]any, _ map[string]any) (map[string]any, error) {
	raw, ok := inputs[InputHandle]
	if !ok {
		return nil, fmt.Errorf("missing input on handle %q", InputHandle)
	}

	text, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("input on handle %q is %T, expected string", InputHandle, raw)
	}

	return map[string]any{OutputHandle: strings.ToUpper(text)}, nil
}
