package transform

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates transform behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID, properties)
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "transform",
		Name:     "Transform",
		Category: models.CategoryTypeProcessing,
		Inputs: []models.HandleSpec{
			{Name: "in", Description: "Primary input exposed to the template as .inputs.in"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "Rendered template result"},
		},
		Properties: map[string]models.PropertySpec{
			"expression": {
				Type:        "string",
				Description: "Go template expression with access to .inputs and .variables",
				Required:    true,
			},
		},
	}
}
