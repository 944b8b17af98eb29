// Package transform provides a template-based data transformation behavior.
package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridflow-io/gridflow/pkg/template"
)

const OutputHandle = "out"

// Behavior renders a Go template expression against the node's resolved
// inputs and the run's shared variables.
type Behavior struct {
	id         string
	expression string
}

func NewBehavior(id string, properties map[string]any) (*Behavior, error) {
	expression, ok := properties["expression"].(string)
	if !ok {
		return nil, errors.New("missing required property 'expression'")
	}

	return &Behavior{id: id, expression: expression}, nil
}

func (b *Behavior) ID() string {
	return b.id
}

func (b *Behavior) Type() string {
	return "transform"
}

func (b *Behavior) Execute(_ context.Context, inputs map[string]any, variables map[string]any) (map[string]any, error) {
	result, err := template.RenderWithInputs(b.expression, inputs, variables)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	return map[string]any{OutputHandle: result}, nil
}
