// Package models defines the core domain models for graph execution.
package models

import "fmt"

// CategoryType groups node templates for catalog and UI purposes.
type CategoryType string

const (
	CategoryTypeInput       CategoryType = "input"
	CategoryTypeProcessing  CategoryType = "processing"
	CategoryTypeAutomation  CategoryType = "automation"
	CategoryTypeLogic       CategoryType = "logic"
	CategoryTypeIntegration CategoryType = "integration"
	CategoryTypeWorkflow    CategoryType = "workflow"
)

// PropertySpec describes one configurable property of a node template.
type PropertySpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// HandleSpec describes one named input or output handle of a node template.
type HandleSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"` // Input handles only: value used when no edge feeds the handle
}

// NodeTemplate is the immutable catalog entry for one node type. Templates are
// loaded once at process start and never mutated afterwards.
type NodeTemplate struct {
	ID         string                  `json:"id"         validate:"required"`
	Name       string                  `json:"name"       validate:"required,min=1"`
	Category   CategoryType            `json:"category"   validate:"required"`
	Inputs     []HandleSpec            `json:"inputs,omitempty"`
	Outputs    []HandleSpec            `json:"outputs,omitempty"`
	Properties map[string]PropertySpec `json:"properties,omitempty"`
}

// Input returns the input handle spec with the given name.
func (t *NodeTemplate) Input(name string) (HandleSpec, bool) {
	for _, h := range t.Inputs {
		if h.Name == name {
			return h, true
		}
	}

	return HandleSpec{}, false
}

// Output returns the output handle spec with the given name.
func (t *NodeTemplate) Output(name string) (HandleSpec, bool) {
	for _, h := range t.Outputs {
		if h.Name == name {
			return h, true
		}
	}

	return HandleSpec{}, false
}

// PropertySchema renders the template's property specs as a JSON Schema
// document suitable for submission-time validation.
func (t *NodeTemplate) PropertySchema() map[string]any {
	properties := make(map[string]any, len(t.Properties))
	required := make([]string, 0)

	for name, spec := range t.Properties {
		prop := map[string]any{"type": spec.Type}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}

		if spec.Default != nil {
			prop["default"] = spec.Default
		}

		properties[name] = prop

		if spec.Required {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// Validate checks structural consistency of the template itself.
func (t *NodeTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("node template is missing an id")
	}

	seen := make(map[string]bool, len(t.Inputs))
	for _, h := range t.Inputs {
		if seen[h.Name] {
			return fmt.Errorf("node template %s declares input handle %q twice", t.ID, h.Name)
		}

		seen[h.Name] = true
	}

	seen = make(map[string]bool, len(t.Outputs))
	for _, h := range t.Outputs {
		if seen[h.Name] {
			return fmt.Errorf("node template %s declares output handle %q twice", t.ID, h.Name)
		}

		seen[h.Name] = true
	}

	return nil
}
