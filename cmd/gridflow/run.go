package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/gridflow-io/gridflow/pkg/cmd"
	"github.com/gridflow-io/gridflow/pkg/config"
	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/log"
	"github.com/gridflow-io/gridflow/pkg/models"
)

const pollInterval = 50 * time.Millisecond

// RunCommand executes one graph read from a JSON or YAML file and prints the
// final execution record.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Execute a graph from a JSON or YAML file",
		ArgsUsage: "<graph.json|graph.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "plugins-path",
				Usage: "Path to the directory containing behavior plugins",
				Value: "./plugins",
			},
			&cli.IntFlag{
				Name:  "max-concurrency",
				Usage: "Cap on concurrently executing nodes per level (0 = unbounded)",
			},
			&cli.BoolFlag{
				Name:  "skip-downstream",
				Usage: "Skip transitive dependents of failed nodes",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one graph file argument")
			}

			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("cli")

			graph, err := config.LoadGraph(command.Args().First())
			if err != nil {
				return err
			}

			registry := cmd.NewRegistry(logger, command.String("plugins-path"))
			tracker := execution.NewTracker()

			eventBus := cmd.NewEventBus("gochannel", logger)
			defer func() { _ = eventBus.Close() }()

			newProgressPrinter(os.Stderr).register(eventBus)

			if err := eventBus.Subscribe(ctx); err != nil {
				return err
			}

			opts := []execution.CoordinatorOption{
				execution.WithEventBus(eventBus),
				execution.WithMaxConcurrency(command.Int("max-concurrency")),
			}
			if command.Bool("skip-downstream") {
				opts = append(opts, execution.WithSkipDownstream())
			}

			coordinator := execution.NewCoordinator(logger, registry, tracker, opts...)

			executionID, err := coordinator.Run(ctx, graph, nil)
			if err != nil {
				return err
			}

			record := waitForRecord(ctx, tracker, executionID)

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")

			if err := encoder.Encode(record); err != nil {
				return err
			}

			if record.Status != models.ExecutionStatusCompleted {
				return fmt.Errorf("execution %s finished with status %s", executionID, record.Status)
			}

			return nil
		},
	}
}

func waitForRecord(ctx context.Context, tracker *execution.Tracker, executionID string) *models.ExecutionRecord {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		record, ok := tracker.Get(executionID)
		if ok && record.Status.Terminal() {
			return record
		}

		select {
		case <-ctx.Done():
			record, _ := tracker.Get(executionID)

			return record
		case <-ticker.C:
		}
	}
}
