// Package merge provides a behavior that combines multiple upstream outputs.
package merge

import (
	"context"
	"maps"
	"sort"
)

const OutputHandle = "out"

// Behavior merges every resolved input into one mapping. Inputs whose value
// is itself a mapping are flattened into the result; scalar inputs are keyed
// by their handle name. Handles merge in name order so the result is
// deterministic regardless of sibling completion order.
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
	return "merge"
}

func (b *Behavior) Execute(_ context.Context, inputs map[string]any, _ map[string]any) (map[string]any, error) {
	handles := make([]string, 0, len(inputs))
	for handle := range inputs {
		handles = append(handles, handle)
	}

	sort.Strings(handles)

	merged := make(map[string]any)

	for _, handle := range handles {
		if m, ok := inputs[handle].(map[string]any); ok {
			maps.Copy(merged, m)

			continue
		}

		merged[handle] = inputs[handle]
	}

	return map[string]any{OutputHandle: merged}, nil
}
