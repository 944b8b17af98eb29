package web

import "github.com/gridflow-io/gridflow/pkg/models"

// SubmitExecutionRequest is the request body for submitting a graph run.
type SubmitExecutionRequest struct {
	GraphID       string               `json:"graph_id"       validate:"required"`
	Nodes         []*models.Node       `json:"nodes"          validate:"required,min=1,dive"`
	Edges         []*models.Edge       `json:"edges"          validate:"omitempty,dive"`
	ExecutionMode models.ExecutionMode `json:"execution_mode" validate:"omitempty,oneof=sequential parallel"`
	Variables     map[string]any       `json:"variables,omitempty"`
}

// ToGraph converts the request into the engine's graph model. An omitted
// execution mode defaults to parallel.
func (r *SubmitExecutionRequest) ToGraph() *models.Graph {
	mode := r.ExecutionMode
	if mode == "" {
		mode = models.ExecutionModeParallel
	}

	return &models.Graph{
		GraphID:       r.GraphID,
		Nodes:         r.Nodes,
		Edges:         r.Edges,
		ExecutionMode: mode,
	}
}

// SubmitExecutionResponse acknowledges an accepted run.
type SubmitExecutionResponse struct {
	ExecutionID string                 `json:"execution_id"`
	GraphID     string                 `json:"graph_id"`
	Status      models.ExecutionStatus `json:"status"`
}

// ExecutionStatusResponse is the status payload for one run: the tracked
// record plus its executed-to-total progress ratio.
type ExecutionStatusResponse struct {
	*models.ExecutionRecord

	Progress float64 `json:"progress"`
}

func newStatusResponse(record *models.ExecutionRecord) ExecutionStatusResponse {
	return ExecutionStatusResponse{
		ExecutionRecord: record,
		Progress:        record.Progress(),
	}
}
