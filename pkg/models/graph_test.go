package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		GraphID: "g-1",
		Nodes: []*Node{
			{ID: "a", Type: "constant"},
			{ID: "b", Type: "uppercase"},
			{ID: "c", Type: "merge"},
		},
		Edges: []*Edge{
			{Source: "a", Target: "b", SourceHandle: "out", TargetHandle: "in"},
			{Source: "a", Target: "c", SourceHandle: "out", TargetHandle: "left"},
			{Source: "b", Target: "c", SourceHandle: "out", TargetHandle: "right"},
		},
	}
}

func TestNodeByID(t *testing.T) {
	graph := sampleGraph()

	node, ok := graph.NodeByID("b")
	require.True(t, ok)
	assert.Equal(t, "uppercase", node.Type)

	_, ok = graph.NodeByID("ghost")
	assert.False(t, ok)
}

func TestIncomingEdges(t *testing.T) {
	graph := sampleGraph()

	edges := graph.IncomingEdges("c")
	require.Len(t, edges, 2)
	assert.Equal(t, "left", edges[0].TargetHandle)
	assert.Equal(t, "right", edges[1].TargetHandle)

	assert.Empty(t, graph.IncomingEdges("a"))
}
