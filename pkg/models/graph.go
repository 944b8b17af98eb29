package models

// ExecutionMode controls the level-internal concurrency of a run. Both modes
// respect the dependency order between levels.
type ExecutionMode string

const (
	// ExecutionModeSequential caps level-internal concurrency at one node.
	ExecutionModeSequential ExecutionMode = "sequential"
	// ExecutionModeParallel allows full level-internal concurrency.
	ExecutionModeParallel ExecutionMode = "parallel"
)

// Node is one unit of work inside a submitted graph. It references a
// NodeTemplate by Type and is read-only during execution.
type Node struct {
	ID         string         `json:"id"         validate:"required"`
	Type       string         `json:"type"       validate:"required"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is a directed data link from a named output handle on the source node
// to a named input handle on the target node. Both endpoints must exist in the
// same graph; a dangling reference is a validation error raised before any
// node executes.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"        validate:"required"`
	Target       string `json:"target"        validate:"required"`
	SourceHandle string `json:"source_handle"`
	TargetHandle string `json:"target_handle"`
}

// Graph is the declarative node/edge set submitted for one execution run.
type Graph struct {
	GraphID       string        `json:"graph_id"       validate:"required"`
	Nodes         []*Node       `json:"nodes"          validate:"required,min=1,dive"`
	Edges         []*Edge       `json:"edges"          validate:"dive"`
	ExecutionMode ExecutionMode `json:"execution_mode"`
}

// NodeByID returns the node with the given ID.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return nil, false
}

// IncomingEdges returns the edges whose target is the given node, in input
// order.
func (g *Graph) IncomingEdges(nodeID string) []*Edge {
	edges := make([]*Edge, 0)

	for _, e := range g.Edges {
		if e.Target == nodeID {
			edges = append(edges, e)
		}
	}

	return edges
}
