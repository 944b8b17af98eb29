package merge

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates merge behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, _ map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID), nil
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "merge",
		Name:     "Merge",
		Category: models.CategoryTypeLogic,
		Inputs: []models.HandleSpec{
			{Name: "first", Description: "First value to merge"},
			{Name: "second", Description: "Second value to merge"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "Combined mapping"},
		},
	}
}
