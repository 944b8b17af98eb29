package graph

import (
	"fmt"
	"sort"

	"github.com/gridflow-io/gridflow/pkg/models"
)

// Level partitions the given nodes into ordered execution levels using Kahn's
// algorithm. Every node in a level has all of its dependencies satisfied by
// strictly earlier levels, and nodes within one level have no dependency
// relationship to each other.
//
// Node order within a level is sorted by node id so a given (nodes, edges)
// pair always levels identically, keeping runs reproducible.
func Level(nodes []*models.Node, edges []*models.Edge) ([]models.ExecutionLevel, error) {
	known := make(map[string]bool, len(nodes))

	for _, node := range nodes {
		if known[node.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, node.ID)
		}

		known[node.ID] = true
	}

	// An edge's target depends on its source.
	deps := make(map[string]map[string]bool, len(nodes))

	for _, edge := range edges {
		if !known[edge.Source] {
			return nil, &UnknownNodeError{EdgeID: edge.ID, NodeID: edge.Source}
		}

		if !known[edge.Target] {
			return nil, &UnknownNodeError{EdgeID: edge.ID, NodeID: edge.Target}
		}

		if deps[edge.Target] == nil {
			deps[edge.Target] = make(map[string]bool)
		}

		deps[edge.Target][edge.Source] = true
	}

	assigned := make(map[string]bool, len(nodes))
	remaining := len(nodes)
	levels := make([]models.ExecutionLevel, 0)

	for remaining > 0 {
		level := make(models.ExecutionLevel, 0)

		for _, node := range nodes {
			if assigned[node.ID] {
				continue
			}

			if satisfied(deps[node.ID], assigned) {
				level = append(level, node.ID)
			}
		}

		// A full pass with no progress means the remaining nodes form a cycle.
		if len(level) == 0 {
			unresolved := make([]string, 0, remaining)

			for _, node := range nodes {
				if !assigned[node.ID] {
					unresolved = append(unresolved, node.ID)
				}
			}

			sort.Strings(unresolved)

			return nil, &CycleError{Remaining: unresolved}
		}

		sort.Strings(level)

		for _, id := range level {
			assigned[id] = true
		}

		remaining -= len(level)

		levels = append(levels, level)
	}

	return levels, nil
}

func satisfied(deps map[string]bool, assigned map[string]bool) bool {
	for dep := range deps {
		if !assigned[dep] {
			return false
		}
	}

	return true
}

// DownstreamOf returns the set of node ids reachable from any of the given
// roots by following edges in the source-to-target direction. The roots
// themselves are not part of the result.
func DownstreamOf(edges []*models.Edge, roots ...string) map[string]bool {
	targets := make(map[string][]string)
	for _, edge := range edges {
		targets[edge.Source] = append(targets[edge.Source], edge.Target)
	}

	reached := make(map[string]bool)
	queue := append([]string(nil), roots...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range targets[current] {
			if reached[next] {
				continue
			}

			reached[next] = true

			queue = append(queue, next)
		}
	}

	for _, root := range roots {
		delete(reached, root)
	}

	return reached
}
