package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence/file"
	"github.com/gridflow-io/gridflow/pkg/registry"
	"github.com/gridflow-io/gridflow/pkg/web"
)

func setupTestApp(t *testing.T) (*fiber.App, *execution.Coordinator, *execution.Tracker) {
	t.Helper()

	logger := slog.Default()
	registryInstance := registry.NewRegistry(logger)
	registryInstance.RegisterDefaultBehaviors()

	tracker := execution.NewTracker()
	archive := file.NewPersistence(t.TempDir())
	coordinator := execution.NewCoordinator(logger, registryInstance, tracker,
		execution.WithArchive(archive))

	handlers := web.NewAPIHandlers(coordinator, tracker, registryInstance, archive,
		validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New()

	e := app.Group("/executions")
	e.Post("/", handlers.SubmitExecution)
	e.Get("/", handlers.ListExecutions)
	e.Get("/:id", handlers.GetExecution)
	e.Delete("/:id", handlers.CancelExecution)

	app.Get("/templates", handlers.GetTemplates)
	app.Get("/health", handlers.HealthCheck)

	return app, coordinator, tracker
}

func submitBody(t *testing.T, payload any) *bytes.Buffer {
	t.Helper()

	if str, ok := payload.(string); ok {
		return bytes.NewBufferString(str)
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return bytes.NewBuffer(body)
}

func TestAPIHandlers_SubmitExecution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		requestBody    any
		expectedStatus int
	}{
		{
			name: "successful submission",
			requestBody: web.SubmitExecutionRequest{
				GraphID: "g1",
				Nodes: []*models.Node{
					{ID: "const", Type: "constant", Properties: map[string]any{"value": "hello"}},
					{ID: "upper", Type: "uppercase"},
				},
				Edges: []*models.Edge{
					{ID: "e1", Source: "const", Target: "upper", SourceHandle: "out", TargetHandle: "in"},
				},
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name: "validation error - missing graph id",
			requestBody: web.SubmitExecutionRequest{
				Nodes: []*models.Node{{ID: "a", Type: "constant"}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error - no nodes",
			requestBody: web.SubmitExecutionRequest{
				GraphID: "g1",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error - unknown node type",
			requestBody: web.SubmitExecutionRequest{
				GraphID: "g1",
				Nodes:   []*models.Node{{ID: "a", Type: "does-not-exist"}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error - missing required property",
			requestBody: web.SubmitExecutionRequest{
				GraphID: "g1",
				Nodes:   []*models.Node{{ID: "a", Type: "constant"}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation error - bad execution mode",
			requestBody: web.SubmitExecutionRequest{
				GraphID:       "g1",
				Nodes:         []*models.Node{{ID: "a", Type: "constant", Properties: map[string]any{"value": 1}}},
				ExecutionMode: "sideways",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not-json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, _, _ := setupTestApp(t)

			req := httptest.NewRequest(http.MethodPost, "/executions", submitBody(t, tt.requestBody))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusAccepted {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)

				var accepted web.SubmitExecutionResponse

				require.NoError(t, json.Unmarshal(body, &accepted))
				assert.NotEmpty(t, accepted.ExecutionID)
				assert.Equal(t, "g1", accepted.GraphID)
			}
		})
	}
}

func TestAPIHandlers_GetExecution(t *testing.T) {
	t.Parallel()

	app, coordinator, tracker := setupTestApp(t)

	g := &models.Graph{
		GraphID: "g1",
		Nodes: []*models.Node{
			{ID: "const", Type: "constant", Properties: map[string]any{"value": "hi"}},
		},
	}

	executionID, err := coordinator.Run(t.Context(), g, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		record, ok := tracker.Get(executionID)

		return ok && record.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/executions/"+executionID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var record models.ExecutionRecord

	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, executionID, record.ExecutionID)
	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, 1, record.ExecutedNodes)
}

func TestAPIHandlers_GetExecution_ReportsProgress(t *testing.T) {
	t.Parallel()

	app, coordinator, tracker := setupTestApp(t)

	g := &models.Graph{
		GraphID: "g1",
		Nodes: []*models.Node{
			{ID: "const", Type: "constant", Properties: map[string]any{"value": "hi"}},
			{ID: "upper", Type: "uppercase"},
		},
		Edges: []*models.Edge{
			{Source: "const", Target: "upper", SourceHandle: "out", TargetHandle: "in"},
		},
	}

	executionID, err := coordinator.Run(t.Context(), g, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		record, ok := tracker.Get(executionID)

		return ok && record.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/executions/"+executionID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any

	require.NoError(t, json.Unmarshal(body, &payload))
	require.Contains(t, payload, "progress")
	assert.InDelta(t, 1.0, payload["progress"], 0.001)
}

func TestAPIHandlers_GetExecution_FallsBackToArchive(t *testing.T) {
	t.Parallel()

	app, coordinator, tracker := setupTestApp(t)

	g := &models.Graph{
		GraphID: "g1",
		Nodes: []*models.Node{
			{ID: "const", Type: "constant", Properties: map[string]any{"value": "hi"}},
		},
	}

	executionID, err := coordinator.Run(t.Context(), g, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		record, ok := tracker.Get(executionID)

		return ok && record.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	// Drop the tracker's copy; the archived record still answers.
	tracker.Prune(0)

	req := httptest.NewRequest(http.MethodGet, "/executions/"+executionID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any

	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, executionID, payload["execution_id"])
	assert.Contains(t, payload, "progress")
}

func TestAPIHandlers_GetExecution_NotFound(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/executions/ghost", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIHandlers_ListExecutions_Empty(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/executions/", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var listing struct {
		Executions []*models.ExecutionRecord `json:"executions"`
		TotalCount int                       `json:"total_count"`
	}

	require.NoError(t, json.Unmarshal(body, &listing))
	assert.Zero(t, listing.TotalCount)
	assert.Empty(t, listing.Executions)
}

func TestAPIHandlers_CancelExecution_NotFound(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/executions/ghost", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIHandlers_CancelExecution_AlreadyFinished(t *testing.T) {
	t.Parallel()

	app, coordinator, tracker := setupTestApp(t)

	g := &models.Graph{
		GraphID: "g1",
		Nodes: []*models.Node{
			{ID: "const", Type: "constant", Properties: map[string]any{"value": 1}},
		},
	}

	executionID, err := coordinator.Run(t.Context(), g, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		record, ok := tracker.Get(executionID)

		return ok && record.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodDelete, "/executions/"+executionID, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPIHandlers_GetTemplates(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/templates", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var listing struct {
		Templates  []*models.NodeTemplate `json:"templates"`
		TotalCount int                    `json:"total_count"`
	}

	require.NoError(t, json.Unmarshal(body, &listing))
	assert.NotZero(t, listing.TotalCount)

	ids := make([]string, 0, len(listing.Templates))
	for _, template := range listing.Templates {
		ids = append(ids, template.ID)
	}

	assert.Contains(t, ids, "constant")
	assert.Contains(t, ids, "uppercase")
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
