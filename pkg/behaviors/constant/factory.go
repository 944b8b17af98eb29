package constant

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates constant behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID, properties)
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "constant",
		Name:     "Constant",
		Category: models.CategoryTypeInput,
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "The configured value"},
		},
		Properties: map[string]models.PropertySpec{
			"value": {
				Type:        "string",
				Description: "Value emitted on the out handle",
				Required:    true,
			},
		},
	}
}
