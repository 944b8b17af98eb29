package execution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/registry"
)

// Dispatcher resolves a node's inputs from upstream outputs and invokes the
// behavior registered for its type. It never aborts a run on its own; the
// decision of what a node failure means belongs to the Coordinator.
type Dispatcher struct {
	logger   *slog.Logger
	registry *registry.Registry
}

func NewDispatcher(logger *slog.Logger, registry *registry.Registry) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		registry: registry,
	}
}

// ExecuteNode runs one node against the current execution context. On
// success the returned mapping is merged into the context's node outputs; on
// failure the error is a *NodeExecutionError carrying the node id.
func (d *Dispatcher) ExecuteNode(ctx context.Context, graph *models.Graph, node *models.Node, ectx *models.ExecutionContext) (map[string]any, error) {
	logger := d.logger.With(
		slog.String("execution_id", ectx.ExecutionID),
		slog.String("node_id", node.ID),
		slog.String("node_type", node.Type),
	)

	if !d.registry.HasBehavior(node.Type) {
		return nil, &NodeExecutionError{
			NodeID: node.ID,
			Err:    fmt.Errorf("%w: %s", ErrUnknownNodeType, node.Type),
		}
	}

	inputs := d.resolveInputs(graph, node, ectx)

	behavior, err := d.registry.CreateBehavior(ctx, node.Type, node.ID, node.Properties)
	if err != nil {
		return nil, &NodeExecutionError{NodeID: node.ID, Err: err}
	}

	logger.Debug("Executing node", slog.Int("resolved_inputs", len(inputs)))

	output, err := behavior.Execute(ctx, inputs, ectx.Variables)
	if err != nil {
		logger.Warn("Node execution failed", slog.Any("error", err))

		return nil, &NodeExecutionError{NodeID: node.ID, Err: err}
	}

	if output == nil {
		output = make(map[string]any)
	}

	ectx.SetOutput(node.ID, output)

	logger.Debug("Node executed successfully")

	return output, nil
}

// resolveInputs builds the node's input mapping: every incoming edge reads
// the source node's output on the source handle and files it under the
// target handle. Handles with no incoming edge take the template's declared
// default, or stay absent if none exists. A connected handle whose upstream
// produced nothing (for example because that node failed) also stays absent;
// deciding whether that is fatal is the behavior's own responsibility.
func (d *Dispatcher) resolveInputs(graph *models.Graph, node *models.Node, ectx *models.ExecutionContext) map[string]any {
	inputs := make(map[string]any)
	connected := make(map[string]bool)

	for _, edge := range graph.IncomingEdges(node.ID) {
		connected[edge.TargetHandle] = true

		upstream, ok := ectx.Output(edge.Source)
		if !ok {
			continue
		}

		value, ok := upstream[edge.SourceHandle]
		if !ok {
			continue
		}

		inputs[edge.TargetHandle] = value
	}

	if template, ok := d.registry.Template(node.Type); ok {
		for _, handle := range template.Inputs {
			if handle.Default == nil || connected[handle.Name] {
				continue
			}

			if _, present := inputs[handle.Name]; !present {
				inputs[handle.Name] = handle.Default
			}
		}
	}

	return inputs
}
