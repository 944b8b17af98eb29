package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/gridflow-io/gridflow/pkg/cmd"
	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/log"
	"github.com/gridflow-io/gridflow/pkg/otelhelper"
	"github.com/gridflow-io/gridflow/pkg/persistence"
)

const defaultPort = 9091

func main() {
	command := &cli.Command{
		Name:                  "gridflow-api",
		Usage:                 "Submit and observe graph executions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Archive URL for terminal execution records (file://, postgres://, redis://)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus transport (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:  "plugins-path",
				Usage: "Path to the directory containing behavior plugins",
				Value: "./plugins",
			},
			&cli.IntFlag{
				Name:    "max-concurrency",
				Usage:   "Cap on concurrently executing nodes per level (0 = unbounded)",
				Sources: cli.EnvVars("MAX_CONCURRENCY"),
			},
			&cli.BoolFlag{
				Name:    "skip-downstream",
				Usage:   "Skip transitive dependents of failed nodes instead of running them with absent inputs",
				Sources: cli.EnvVars("SKIP_DOWNSTREAM"),
			},
			&cli.DurationFlag{
				Name:    "retention",
				Usage:   "How long archived execution records are kept",
				Value:   7 * 24 * time.Hour,
				Sources: cli.EnvVars("RETENTION"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
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
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing GridFlow API")

			registry := cmd.NewRegistry(logger, command.String("plugins-path"))

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			opts := []execution.CoordinatorOption{
				execution.WithEventBus(eventBus),
				execution.WithMaxConcurrency(command.Int("max-concurrency")),
			}

			if command.Bool("skip-downstream") {
				opts = append(opts, execution.WithSkipDownstream())
			}

			var archive persistence.Persistence

			if databaseURL := command.String("database-url"); databaseURL != "" {
				var err error

				archive, err = cmd.NewPersistence(ctx, logger, databaseURL)
				if err != nil {
					return err
				}

				defer func() {
					if err := archive.Close(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to close archive", "error", err)
					}
				}()

				opts = append(opts, execution.WithArchive(archive))

				sweeper := persistence.NewSweeper(logger, archive, command.Duration("retention"))
				if err := sweeper.Start(ctx); err != nil {
					return err
				}

				defer sweeper.Stop()
			}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "gridflow-api")
				if err != nil {
					return err
				}

				opts = append(opts, execution.WithTracer(tracer))
			}

			tracker := execution.NewTracker()
			coordinator := execution.NewCoordinator(logger, registry, tracker, opts...)

			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
				defer cancel()

				if err := coordinator.Shutdown(shutdownCtx); err != nil {
					logger.ErrorContext(ctx, "Failed to shut down coordinator", "error", err)
				}
			}()

			api := NewAPI(logger, coordinator, tracker, registry, archive)

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
