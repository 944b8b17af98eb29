package uppercase

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates uppercase behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, _ map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID), nil
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "uppercase",
		Name:     "Uppercase",
		Category: models.CategoryTypeProcessing,
		Inputs: []models.HandleSpec{
			{Name: InputHandle, Description: "Text to upper-case"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "Upper-cased text"},
		},
	}
}
