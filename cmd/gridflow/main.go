package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "gridflow",
		Usage:                 "Execute node/edge graphs",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			RunCommand(),
			TemplatesCommand(),
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
