package main

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflow-io/gridflow/pkg/channels/gochannel"
	"github.com/gridflow-io/gridflow/pkg/eventbus"
	"github.com/gridflow-io/gridflow/pkg/execution"
	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/registry"
)

// syncWriter guards the buffer because bus handlers run on the subscriber
// goroutine while the test reads.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.buf.String()
}

func TestProgressPrinterStreamsNodeEvents(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	out := &syncWriter{}
	newProgressPrinter(out).register(bus)
	require.NoError(t, bus.Subscribe(t.Context()))

	logger := slog.Default()
	reg := registry.NewRegistry(logger)
	reg.RegisterDefaultBehaviors()

	tracker := execution.NewTracker()
	coordinator := execution.NewCoordinator(logger, reg, tracker,
		execution.WithEventBus(bus),
		execution.WithSkipDownstream())

	g := &models.Graph{
		GraphID: "g1",
		Nodes: []*models.Node{
			{ID: "greeting", Type: "constant", Properties: map[string]any{"value": "hi"}},
			{ID: "bad", Type: "uppercase"},
			{ID: "leaf", Type: "uppercase"},
		},
		Edges: []*models.Edge{
			// "missing" never resolves, so "bad" fails and "leaf" is skipped.
			{Source: "greeting", Target: "bad", SourceHandle: "missing", TargetHandle: "in"},
			{Source: "bad", Target: "leaf", SourceHandle: "out", TargetHandle: "in"},
		},
	}

	executionID, err := coordinator.Run(t.Context(), g, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		record, ok := tracker.Get(executionID)

		return ok && record.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		lines := out.String()

		return strings.Contains(lines, "node greeting finished") &&
			strings.Contains(lines, "node bad failed") &&
			strings.Contains(lines, "node leaf skipped")
	}, 2*time.Second, 10*time.Millisecond)
}
