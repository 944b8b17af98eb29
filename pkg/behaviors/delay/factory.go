package delay

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates delay behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID, properties)
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "delay",
		Name:     "Delay",
		Category: models.CategoryTypeWorkflow,
		Inputs: []models.HandleSpec{
			{Name: InputHandle, Description: "Value forwarded after the wait"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "The forwarded input value"},
			{Name: "waited_ms", Description: "Milliseconds actually waited"},
		},
		Properties: map[string]models.PropertySpec{
			"duration_ms": {
				Type:        "integer",
				Description: "How long to wait before forwarding",
				Default:     defaultDurationMs,
			},
		},
	}
}
