package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/gridflow-io/gridflow/pkg/channels/gochannel"
	"github.com/gridflow-io/gridflow/pkg/channels/kafka"
	"github.com/gridflow-io/gridflow/pkg/eventbus"
)

// NewEventBus creates an event bus on the selected transport. "kafka" targets
// the brokers named by KAFKA_BROKERS; anything else gets the in-process
// channel.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "gridflow")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	default:
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create in-process pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	}
}
