// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/gridflow-io/gridflow/pkg/registry"
)

// NewRegistry creates the behavior registry with all built-in behaviors
// registered, plus any behavior plugins found under pluginsPath.
func NewRegistry(log *slog.Logger, pluginsPath string) *registry.Registry {
	reg := registry.NewRegistry(log)
	reg.RegisterDefaultBehaviors()

	if pluginsPath != "" {
		plugins, err := reg.LoadBehaviorPlugins(pluginsPath)
		if err != nil {
			panic(err)
		}

		for _, plugin := range plugins {
			reg.MustRegisterBehavior(plugin)
		}
	}

	return reg
}
