package main

import (
	"context"
	"encoding/json"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/gridflow-io/gridflow/pkg/cmd"
	"github.com/gridflow-io/gridflow/pkg/log"
)

// TemplatesCommand prints the node template catalog.
func TemplatesCommand() *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"t"},
		Usage:   "List available node templates",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "plugins-path",
				Usage: "Path to the directory containing behavior plugins",
				Value: "./plugins",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup("error", "text")

			registry := cmd.NewRegistry(log.WithModule("cli"), command.String("plugins-path"))

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			return encoder.Encode(registry.Templates())
		},
	}
}
