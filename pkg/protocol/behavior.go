// Package protocol defines the interfaces and contracts for pluggable node behaviors.
package protocol

import (
	"context"

	"github.com/gridflow-io/gridflow/pkg/models"
)

// Behavior is the "execute one node" contract the engine depends on. The
// engine knows nothing about what a behavior actually does: OCR, input
// automation, LLM calls and similar collaborators all sit behind this
// interface.
//
// Execute receives the node's resolved inputs (keyed by input handle) and a
// read-only view of the run's shared variables, and returns an output mapping
// keyed by output handle. Behaviors must not mutate the variables map;
// variable updates flow through returned outputs merged by the engine.
// A behavior that blocks should honor ctx cancellation; the engine surfaces a
// timeout as an ordinary node failure.
type Behavior interface {
	// ID returns the node instance id this behavior was created for
	ID() string

	// Type returns the node template id this behavior implements
	Type() string

	// Execute runs the node and returns its output mapping
	Execute(ctx context.Context, inputs map[string]any, variables map[string]any) (map[string]any, error)
}

// BehaviorFactory creates behavior instances and provides the catalog metadata
// for the node type. Adding a node type to the engine means registering a
// factory, never editing a dispatch function.
type BehaviorFactory interface {
	// Create creates a behavior instance bound to one node's properties
	Create(ctx context.Context, nodeID string, properties map[string]any) (Behavior, error)

	// Template returns the immutable catalog entry for this node type
	Template() *models.NodeTemplate
}
