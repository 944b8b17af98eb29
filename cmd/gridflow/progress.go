package main

import (
	"context"
	"fmt"
	"io"

	"github.com/gridflow-io/gridflow/pkg/eventbus"
	"github.com/gridflow-io/gridflow/pkg/events"
)

// progressPrinter consumes node lifecycle events and writes one line per
// node while the run executes, so long graphs show movement before the
// final record prints.
type progressPrinter struct {
	w io.Writer
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) register(bus eventbus.EventSubscriber) {
	bus.Handle(events.NodeFinishedEvent, func(_ context.Context, event any) error {
		if e, ok := event.(*events.NodeFinished); ok {
			fmt.Fprintf(p.w, "node %s finished\n", e.NodeID)
		}

		return nil
	})

	bus.Handle(events.NodeFailedEvent, func(_ context.Context, event any) error {
		if e, ok := event.(*events.NodeFailed); ok {
			fmt.Fprintf(p.w, "node %s failed: %s\n", e.NodeID, e.Error)
		}

		return nil
	})

	bus.Handle(events.NodeSkippedEvent, func(_ context.Context, event any) error {
		if e, ok := event.(*events.NodeSkipped); ok {
			fmt.Fprintf(p.w, "node %s skipped\n", e.NodeID)
		}

		return nil
	})
}
