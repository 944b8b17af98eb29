package log

import (
	"context"
	"log/slog"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates log behaviors bound to a process logger.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) protocol.BehaviorFactory {
	return &Factory{logger: logger}
}

func (f *Factory) Create(_ context.Context, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID, properties, f.logger), nil
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "log",
		Name:     "Log",
		Category: models.CategoryTypeWorkflow,
		Inputs: []models.HandleSpec{
			{Name: InputHandle, Description: "Value logged and forwarded"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandle, Description: "The forwarded input value"},
			{Name: "logged_at", Description: "RFC3339 timestamp of the log call"},
		},
		Properties: map[string]models.PropertySpec{
			"message": {
				Type:        "string",
				Description: "Message to log",
			},
			"level": {
				Type:        "string",
				Description: "Log level (debug, info, warn, error)",
				Default:     "info",
			},
		},
	}
}
