// Package registry holds the node template catalog and behavior factory table.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"
	"sort"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/protocol"
)

// Registry maps node type ids to their behavior factories and catalog
// templates. It is populated at startup and read-only afterwards, so lookups
// need no locking.
type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.BehaviorFactory
	templates map[string]*models.NodeTemplate
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[string]protocol.BehaviorFactory),
		templates: make(map[string]*models.NodeTemplate),
	}
}

// RegisterBehavior adds a behavior factory and its template to the catalog.
// Two templates sharing an id is a startup error.
func (r *Registry) RegisterBehavior(factory protocol.BehaviorFactory) error {
	template := factory.Template()

	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid node template: %w", err)
	}

	if _, exists := r.templates[template.ID]; exists {
		return fmt.Errorf("node template %q registered twice", template.ID)
	}

	r.factories[template.ID] = factory
	r.templates[template.ID] = template

	return nil
}

// MustRegisterBehavior registers a factory and panics on conflict. Intended
// for startup wiring of built-in behaviors.
func (r *Registry) MustRegisterBehavior(factory protocol.BehaviorFactory) {
	if err := r.RegisterBehavior(factory); err != nil {
		panic(err)
	}
}

// CreateBehavior instantiates the behavior registered for the given node
// type, bound to one node's properties.
func (r *Registry) CreateBehavior(ctx context.Context, nodeType, nodeID string, properties map[string]any) (protocol.Behavior, error) {
	factory, ok := r.factories[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", nodeType)
	}

	return factory.Create(ctx, nodeID, properties)
}

// HasBehavior reports whether a behavior is registered for the node type.
func (r *Registry) HasBehavior(nodeType string) bool {
	_, ok := r.factories[nodeType]

	return ok
}

// Template returns the catalog entry for the given node type.
func (r *Registry) Template(nodeType string) (*models.NodeTemplate, bool) {
	template, ok := r.templates[nodeType]

	return template, ok
}

// Templates returns the full catalog ordered by template id, for status
// queries and UI generation.
func (r *Registry) Templates() []*models.NodeTemplate {
	templates := make([]*models.NodeTemplate, 0, len(r.templates))
	for _, template := range r.templates {
		templates = append(templates, template)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].ID < templates[j].ID
	})

	return templates
}

// HealthCheck reports whether the registry is usable.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.factories) == 0 {
		return "no behaviors registered", false
	}

	return fmt.Sprintf("%d behaviors registered", len(r.factories)), true
}

// LoadBehaviorPlugins loads behavior factories from compiled Go plugins under
// pluginsPath/behaviors. Each plugin must export a `Behavior` symbol
// implementing protocol.BehaviorFactory.
func (r *Registry) LoadBehaviorPlugins(pluginsPath string) ([]protocol.BehaviorFactory, error) {
	rootPath := pluginsPath + "/behaviors"

	if _, err := os.Stat(rootPath); os.IsNotExist(err) {
		return nil, nil
	}

	root := os.DirFS(rootPath)

	pluginPathList, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return nil, err
	}

	l := r.logger.With(slog.String("path", rootPath))
	l.Info("Loading behavior plugins")

	pluginList := make([]protocol.BehaviorFactory, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(rootPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		symbol, err := plg.Lookup("Behavior")
		if err != nil {
			return nil, fmt.Errorf("plugin %s has no Behavior symbol: %w", p, err)
		}

		factory, ok := symbol.(protocol.BehaviorFactory)
		if !ok {
			return nil, fmt.Errorf("plugin %s Behavior symbol is not a BehaviorFactory", p)
		}

		pluginList = append(pluginList, factory)

		l.Info("Loaded behavior plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
