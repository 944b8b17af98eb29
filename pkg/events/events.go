// Package events defines the event types published over a run's lifecycle.
package events

import (
	"time"

	"github.com/gridflow-io/gridflow/pkg/models"
)

type EventType string

// Topic carries all execution lifecycle events.
const Topic = "gridflow.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"
	ExecutionCancelledEvent EventType = "execution.cancelled"

	NodeFinishedEvent EventType = "execution.node.finished"
	NodeFailedEvent   EventType = "execution.node.failed"
	NodeSkippedEvent  EventType = "execution.node.skipped"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ExecutionID string    `json:"execution_id"`
	GraphID     string    `json:"graph_id"`
}

type ExecutionStarted struct {
	BaseEvent

	TotalNodes    int                  `json:"total_nodes"`
	ExecutionMode models.ExecutionMode `json:"execution_mode"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutedNodes int           `json:"executed_nodes"`
	Duration      time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutedNodes int           `json:"executed_nodes"`
	FailedNodes   int           `json:"failed_nodes"`
	Error         string        `json:"error,omitempty"`
	Duration      time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ExecutionCancelled struct {
	BaseEvent
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

type NodeFinished struct {
	BaseEvent

	NodeID   string         `json:"node_id"`
	NodeType string         `json:"node_type"`
	Output   map[string]any `json:"output,omitempty"`
}

func (e NodeFinished) GetType() EventType {
	return NodeFinishedEvent
}

type NodeFailed struct {
	BaseEvent

	NodeID   string `json:"node_id"`
	NodeType string `json:"node_type"`
	Error    string `json:"error"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}

type NodeSkipped struct {
	BaseEvent

	NodeID string `json:"node_id"`
	Reason string `json:"reason"`
}

func (e NodeSkipped) GetType() EventType {
	return NodeSkippedEvent
}
