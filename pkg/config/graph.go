// Package config provides loading of graph definition files
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gridflow-io/gridflow/pkg/models"
)

// LoadGraph reads a graph definition from a JSON or YAML file. The format
// is picked by the file extension; anything that is not .yaml or .yml is
// treated as JSON. Graphs without an explicit execution mode default to
// parallel.
func LoadGraph(path string) (*models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML graph file %s: %w", path, err)
		}
	}

	var graph models.Graph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", path, err)
	}

	if graph.ExecutionMode == "" {
		graph.ExecutionMode = models.ExecutionModeParallel
	}

	return &graph, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return json.Marshal(doc)
}
