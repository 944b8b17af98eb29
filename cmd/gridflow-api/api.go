// Package main provides the GridFlow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/persistence"
	"github.com/gridflow-io/gridflow/pkg/registry"
	"github.com/gridflow-io/gridflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	coordinator *execution.Coordinator
	tracker     *execution.Tracker
	registry    *registry.Registry
	archive     persistence.Persistence
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	coordinator *execution.Coordinator,
	tracker *execution.Tracker,
	reg *registry.Registry,
	archive persistence.Persistence,
) *API {
	return &API{
		logger:      logger,
		coordinator: coordinator,
		tracker:     tracker,
		registry:    reg,
		archive:     archive,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.coordinator, a.tracker, a.registry, a.archive, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("GridFlow API")
	})

	e := app.Group("/executions")
	e.Post("/", handlers.SubmitExecution)
	e.Get("/", handlers.ListExecutions)
	e.Get("/:id", handlers.GetExecution)
	e.Delete("/:id", handlers.CancelExecution)

	app.Get("/templates", handlers.GetTemplates)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
