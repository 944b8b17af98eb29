// Package web provides the HTTP handlers for submitting and observing runs.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/xeipuuv/gojsonschema"

	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence"
	"github.com/gridflow-io/gridflow/pkg/registry"
)

type APIHandlers struct {
	coordinator *execution.Coordinator
	tracker     *execution.Tracker
	registry    *registry.Registry
	archive     persistence.Persistence
	validator   *validator.Validate
}

// NewAPIHandlers wires the handlers. The archive is optional; without one,
// status queries only cover records still held by the tracker.
func NewAPIHandlers(
	coordinator *execution.Coordinator,
	tracker *execution.Tracker,
	reg *registry.Registry,
	archive persistence.Persistence,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		coordinator: coordinator,
		tracker:     tracker,
		registry:    reg,
		archive:     archive,
		validator:   validate,
	}
}

// SubmitExecution accepts a graph, validates it against the template catalog
// and starts the run. It answers 202 before any node executes; structural
// leveling errors surface on the execution record instead.
func (h *APIHandlers) SubmitExecution(c fiber.Ctx) error {
	var req SubmitExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.validateNodes(req.Nodes); err != nil {
		return badRequest(c, err.Error())
	}

	executionID, err := h.coordinator.Run(c.Context(), req.ToGraph(), req.Variables)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(SubmitExecutionResponse{
		ExecutionID: executionID,
		GraphID:     req.GraphID,
		Status:      models.ExecutionStatusPending,
	})
}

// validateNodes rejects unknown node types and properties that do not match
// the template's declared schema.
func (h *APIHandlers) validateNodes(nodes []*models.Node) error {
	for _, node := range nodes {
		template, ok := h.registry.Template(node.Type)
		if !ok {
			return fmt.Errorf("node %s references unknown type %q", node.ID, node.Type)
		}

		if len(template.Properties) == 0 {
			continue
		}

		properties := node.Properties
		if properties == nil {
			properties = map[string]any{}
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(template.PropertySchema()),
			gojsonschema.NewGoLoader(properties),
		)
		if err != nil {
			return fmt.Errorf("node %s: %w", node.ID, err)
		}

		if !result.Valid() {
			details := make([]string, 0, len(result.Errors()))
			for _, issue := range result.Errors() {
				details = append(details, issue.String())
			}

			return fmt.Errorf("node %s properties invalid: %s", node.ID, strings.Join(details, "; "))
		}
	}

	return nil
}

// GetExecution returns the record for one execution id, consulting the
// archive for runs the tracker already pruned.
func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	if record, ok := h.tracker.Get(id); ok {
		return c.JSON(newStatusResponse(record))
	}

	if h.archive != nil {
		record, err := h.archive.RecordByID(c.Context(), id)
		if err == nil {
			return c.JSON(newStatusResponse(record))
		}

		if !persistence.IsRecordNotFound(err) {
			return internalError(c, err)
		}
	}

	return notFound(c, "Execution not found")
}

// ListExecutions returns all runs that have not yet reached a terminal
// status.
func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	active := h.tracker.ListActive()
	records := make([]ExecutionStatusResponse, 0, len(active))

	for _, id := range active {
		if record, ok := h.tracker.Get(id); ok {
			records = append(records, newStatusResponse(record))
		}
	}

	return c.JSON(fiber.Map{
		"executions":  records,
		"total_count": len(records),
	})
}

// CancelExecution requests cooperative cancellation of a running execution.
func (h *APIHandlers) CancelExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	err := h.coordinator.Cancel(id)

	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusAccepted)
	case errors.Is(err, execution.ErrExecutionTerminal):
		return conflict(c, "Execution already finished")
	case errors.Is(err, execution.ErrExecutionNotFound):
		return notFound(c, "Execution not found")
	default:
		return internalError(c, err)
	}
}

// GetTemplates returns the node template catalog.
func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates := h.registry.Templates()

	return c.JSON(fiber.Map{
		"templates":   templates,
		"total_count": len(templates),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()

	archiveCheck := "not configured"
	archiveOk := true

	if h.archive != nil {
		if err := h.archive.HealthCheck(c.Context()); err != nil {
			archiveCheck = err.Error()
			archiveOk = false
		} else {
			archiveCheck = "ok"
		}
	}

	status := "unhealthy"
	message := "GridFlow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && archiveOk {
		status = "healthy"
		message = "GridFlow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry": registryCheck,
			"archive":  archiveCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
