package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflow-io/gridflow/pkg/models"
)

func writeGraphFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadGraphJSON(t *testing.T) {
	path := writeGraphFile(t, "graph.json", `{
		"graph_id": "demo",
		"nodes": [
			{"id": "a", "type": "constant", "properties": {"value": "hello"}},
			{"id": "b", "type": "uppercase"}
		],
		"edges": [
			{"source": "a", "target": "b", "source_handle": "out", "target_handle": "in"}
		]
	}`)

	graph, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", graph.GraphID)
	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Edges, 1)
	assert.Equal(t, models.ExecutionModeParallel, graph.ExecutionMode)
}

func TestLoadGraphYAML(t *testing.T) {
	path := writeGraphFile(t, "graph.yaml", `
graph_id: demo
execution_mode: sequential
nodes:
  - id: a
    type: constant
    properties:
      value: hello
  - id: b
    type: uppercase
edges:
  - source: a
    target: b
    source_handle: out
    target_handle: in
`)

	graph, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", graph.GraphID)
	assert.Equal(t, models.ExecutionModeSequential, graph.ExecutionMode)
	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, "constant", graph.Nodes[0].Type)
	assert.Equal(t, "hello", graph.Nodes[0].Properties["value"])
}

func TestLoadGraphMissingFile(t *testing.T) {
	_, err := LoadGraph(filepath.Join(t.TempDir(), "absent.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read graph file")
}

func TestLoadGraphInvalidYAML(t *testing.T) {
	path := writeGraphFile(t, "graph.yaml", "graph_id: [unclosed")

	_, err := LoadGraph(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}
