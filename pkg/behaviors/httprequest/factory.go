package httprequest

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Factory creates httprequest behaviors.
type Factory struct{}

func NewFactory() protocol.BehaviorFactory {
	return &Factory{}
}

func (f *Factory) Create(_ context.Context, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	return NewBehavior(nodeID, properties)
}

func (f *Factory) Template() *models.NodeTemplate {
	return &models.NodeTemplate{
		ID:       "httprequest",
		Name:     "HTTP Request",
		Category: models.CategoryTypeIntegration,
		Inputs: []models.HandleSpec{
			{Name: InputHandleBody, Description: "Optional request body"},
		},
		Outputs: []models.HandleSpec{
			{Name: OutputHandleStatus, Description: "HTTP status code"},
			{Name: OutputHandleBody, Description: "Decoded response body"},
			{Name: OutputHandleHeaders, Description: "Response headers"},
		},
		Properties: map[string]models.PropertySpec{
			"url": {
				Type:        "string",
				Description: "Target URL",
				Required:    true,
			},
			"method": {
				Type:        "string",
				Description: "HTTP method",
				Default:     "GET",
			},
			"headers": {
				Type:        "object",
				Description: "Request headers",
			},
			"timeout": {
				Type:        "integer",
				Description: "Request timeout in seconds",
				Default:     defaultTimeoutSeconds,
			},
		},
	}
}
