package execution

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridflow-io/gridflow/pkg/eventbus"
	"github.com/gridflow-io/gridflow/pkg/events"
	"github.com/gridflow-io/gridflow/pkg/graph"
	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/otelhelper"
	"github.com/gridflow-io/gridflow/pkg/persistence"
	"github.com/gridflow-io/gridflow/pkg/registry"
)

const archiveTimeout = 10 * time.Second

// Coordinator owns the full lifecycle of graph runs: leveling, level-by-level
// dispatch, status tracking and terminal archival. One Coordinator serves any
// number of concurrent runs; each run gets its own ExecutionContext and its
// own goroutine.
//
// A node failure never aborts the run. Siblings in the same level still
// execute and later levels still run, with downstream nodes receiving absent
// inputs instead of the failed node's output. WithSkipDownstream switches to
// marking every transitive dependent of a failed node as skipped.
type Coordinator struct {
	logger     *slog.Logger
	dispatcher *Dispatcher
	tracker    *Tracker

	eventBus       eventbus.EventPublisher
	archive        persistence.Persistence
	tracer         trace.Tracer
	maxConcurrency int
	skipDownstream bool

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithEventBus enables lifecycle event publishing.
func WithEventBus(publisher eventbus.EventPublisher) CoordinatorOption {
	return func(c *Coordinator) {
		c.eventBus = publisher
	}
}

// WithArchive persists every record that reaches a terminal status.
func WithArchive(archive persistence.Persistence) CoordinatorOption {
	return func(c *Coordinator) {
		c.archive = archive
	}
}

// WithTracer enables distributed tracing of runs and node dispatches.
func WithTracer(tracer trace.Tracer) CoordinatorOption {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// WithMaxConcurrency caps how many nodes of one level run at the same time
// in parallel mode. Zero means no cap.
func WithMaxConcurrency(n int) CoordinatorOption {
	return func(c *Coordinator) {
		c.maxConcurrency = n
	}
}

// WithSkipDownstream marks all transitive dependents of a failed node as
// skipped instead of dispatching them with absent inputs.
func WithSkipDownstream() CoordinatorOption {
	return func(c *Coordinator) {
		c.skipDownstream = true
	}
}

// NewCoordinator creates a coordinator dispatching against the given
// behavior registry.
func NewCoordinator(logger *slog.Logger, reg *registry.Registry, tracker *Tracker, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		logger:     logger,
		dispatcher: NewDispatcher(logger, reg),
		tracker:    tracker,
		cancels:    make(map[string]context.CancelFunc),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run accepts a graph, registers a pending record and starts the run in the
// background. It returns the generated execution id immediately; progress is
// observed through the tracker. The run outlives the caller's context, only
// Cancel and Shutdown stop it.
func (c *Coordinator) Run(ctx context.Context, g *models.Graph, variables map[string]any) (string, error) {
	executionID := "exec-" + uuid.New().String()[:8]

	err := c.tracker.Start(executionID, g.GraphID, len(g.Nodes))
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	c.mu.Lock()
	c.cancels[executionID] = cancel
	c.mu.Unlock()

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		defer c.removeCancel(executionID)

		c.run(runCtx, executionID, g, variables)
	}()

	return executionID, nil
}

// Cancel requests cooperative cancellation of a running execution. The run
// stops at the next level boundary; nodes already dispatched finish first.
func (c *Coordinator) Cancel(executionID string) error {
	c.mu.Lock()
	cancel, ok := c.cancels[executionID]
	c.mu.Unlock()

	if !ok {
		if _, known := c.tracker.Get(executionID); known {
			return ErrExecutionTerminal
		}

		return ErrExecutionNotFound
	}

	cancel()

	return nil
}

// Shutdown cancels all active runs and waits for them to wind down, or until
// the context expires.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	for _, cancel := range c.cancels {
		cancel()
	}
	c.mu.Unlock()

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context, executionID string, g *models.Graph, variables map[string]any) {
	logger := c.logger.With(
		slog.String("execution_id", executionID),
		slog.String("graph_id", g.GraphID),
	)

	var span trace.Span

	if c.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, c.tracer, "graph.run",
			attribute.String(otelhelper.ExecutionIDKey, executionID),
			attribute.String(otelhelper.GraphIDKey, g.GraphID),
		)
		defer span.End()
	}

	startedAt := time.Now().UTC()

	levels, err := graph.Level(g.Nodes, g.Edges)
	if err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
		}

		logger.Warn("Graph rejected before execution", slog.Any("error", err))
		c.finish(ctx, executionID, g, models.ExecutionStatusFailed, err.Error(), startedAt)

		return
	}

	if err := c.tracker.MarkRunning(executionID, levels); err != nil {
		logger.Error("Failed to mark execution running", slog.Any("error", err))

		return
	}

	c.publish(ctx, executionID, events.ExecutionStarted{
		BaseEvent:     c.baseEvent(events.ExecutionStartedEvent, executionID, g.GraphID),
		TotalNodes:    len(g.Nodes),
		ExecutionMode: g.ExecutionMode,
	})

	logger.Info("Execution started",
		slog.Int("total_nodes", len(g.Nodes)),
		slog.Int("levels", len(levels)),
		slog.String("mode", string(g.ExecutionMode)),
	)

	ectx := models.NewExecutionContext(executionID, g.GraphID, variables)
	skip := make(map[string]bool)
	cancelled := false

	for i, level := range levels {
		if ctx.Err() != nil {
			cancelled = true

			break
		}

		failed := c.runLevel(ctx, executionID, g, level, ectx, skip, i)

		if c.skipDownstream {
			for _, nodeID := range failed {
				for dependent := range graph.DownstreamOf(g.Edges, nodeID) {
					skip[dependent] = true
				}
			}
		}
	}

	if cancelled {
		logger.Info("Execution cancelled")
		c.finish(ctx, executionID, g, models.ExecutionStatusCancelled, "execution cancelled", startedAt)

		return
	}

	record, _ := c.tracker.Get(executionID)

	status := models.ExecutionStatusCompleted
	if record != nil && record.FailedNodes > 0 {
		status = models.ExecutionStatusFailed
	}

	c.finish(ctx, executionID, g, status, "", startedAt)
}

// runLevel dispatches every node of one level and blocks until all of them
// terminated. It returns the ids of the nodes that failed.
func (c *Coordinator) runLevel(ctx context.Context, executionID string, g *models.Graph, level models.ExecutionLevel, ectx *models.ExecutionContext, skip map[string]bool, levelIndex int) []string {
	width := len(level)
	if g.ExecutionMode == models.ExecutionModeSequential {
		width = 1
	} else if c.maxConcurrency > 0 && c.maxConcurrency < width {
		width = c.maxConcurrency
	}

	sem := make(chan struct{}, width)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)

	for _, nodeID := range level {
		if skip[nodeID] {
			reason := "skipped: upstream dependency failed"

			if err := c.tracker.RecordSkipped(executionID, nodeID, reason); err != nil {
				c.logger.Error("Failed to record skipped node", slog.Any("error", err))
			}

			c.publish(ctx, executionID, events.NodeSkipped{
				BaseEvent: c.baseEvent(events.NodeSkippedEvent, executionID, g.GraphID),
				NodeID:    nodeID,
				Reason:    reason,
			})

			continue
		}

		node, ok := g.NodeByID(nodeID)
		if !ok {
			// Leveling guarantees every id resolves.
			continue
		}

		wg.Add(1)

		go func(node *models.Node) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			nodeErr := c.runNode(ctx, executionID, g, node, ectx, levelIndex)
			if nodeErr != nil {
				mu.Lock()
				failed = append(failed, node.ID)
				mu.Unlock()
			}
		}(node)
	}

	wg.Wait()

	return failed
}

func (c *Coordinator) runNode(ctx context.Context, executionID string, g *models.Graph, node *models.Node, ectx *models.ExecutionContext, levelIndex int) error {
	var span trace.Span

	if c.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, c.tracer, "graph.node",
			attribute.String(otelhelper.ExecutionIDKey, executionID),
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, node.Type),
			attribute.Int(otelhelper.LevelIndexKey, levelIndex),
		)
		defer span.End()
	}

	output, err := c.dispatcher.ExecuteNode(ctx, g, node, ectx)

	if recordErr := c.tracker.RecordNode(executionID, node.ID, err); recordErr != nil {
		c.logger.Error("Failed to record node result", slog.Any("error", recordErr))
	}

	if err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
		}

		c.publish(ctx, executionID, events.NodeFailed{
			BaseEvent: c.baseEvent(events.NodeFailedEvent, executionID, g.GraphID),
			NodeID:    node.ID,
			NodeType:  node.Type,
			Error:     err.Error(),
		})

		return err
	}

	c.publish(ctx, executionID, events.NodeFinished{
		BaseEvent: c.baseEvent(events.NodeFinishedEvent, executionID, g.GraphID),
		NodeID:    node.ID,
		NodeType:  node.Type,
		Output:    output,
	})

	return nil
}

// finish freezes the record, publishes the terminal event and hands the
// snapshot to the archive when one is configured.
func (c *Coordinator) finish(ctx context.Context, executionID string, g *models.Graph, status models.ExecutionStatus, runErr string, startedAt time.Time) {
	if err := c.tracker.Finish(executionID, status, runErr); err != nil {
		c.logger.Error("Failed to finish execution", slog.Any("error", err))
	}

	record, _ := c.tracker.Get(executionID)
	duration := time.Since(startedAt)

	switch status {
	case models.ExecutionStatusCompleted:
		c.publish(ctx, executionID, events.ExecutionCompleted{
			BaseEvent:     c.baseEvent(events.ExecutionCompletedEvent, executionID, g.GraphID),
			ExecutedNodes: record.ExecutedNodes,
			Duration:      duration,
		})
	case models.ExecutionStatusCancelled:
		c.publish(ctx, executionID, events.ExecutionCancelled{
			BaseEvent: c.baseEvent(events.ExecutionCancelledEvent, executionID, g.GraphID),
		})
	default:
		c.publish(ctx, executionID, events.ExecutionFailed{
			BaseEvent:     c.baseEvent(events.ExecutionFailedEvent, executionID, g.GraphID),
			ExecutedNodes: record.ExecutedNodes,
			FailedNodes:   record.FailedNodes,
			Error:         runErr,
			Duration:      duration,
		})
	}

	c.logger.Info("Execution finished",
		slog.String("execution_id", executionID),
		slog.String("status", string(status)),
		slog.Int("executed_nodes", record.ExecutedNodes),
		slog.Int("failed_nodes", record.FailedNodes),
		slog.Int("skipped_nodes", record.SkippedNodes),
		slog.Duration("duration", duration),
	)

	if c.archive == nil {
		return
	}

	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := c.archive.SaveRecord(archiveCtx, record); err != nil {
		c.logger.Error("Failed to archive execution record",
			slog.String("execution_id", executionID),
			slog.Any("error", err),
		)
	}
}

func (c *Coordinator) publish(ctx context.Context, executionID string, event eventbus.Event) {
	if c.eventBus == nil {
		return
	}

	if err := c.eventBus.Publish(ctx, executionID, event); err != nil {
		c.logger.Warn("Failed to publish event",
			slog.String("event_type", string(event.GetType())),
			slog.Any("error", err),
		)
	}
}

func (c *Coordinator) baseEvent(eventType events.EventType, executionID, graphID string) events.BaseEvent {
	return events.BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		ExecutionID: executionID,
		GraphID:     graphID,
	}
}

func (c *Coordinator) removeCancel(executionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cancel, ok := c.cancels[executionID]; ok {
		cancel()
		delete(c.cancels, executionID)
	}
}
