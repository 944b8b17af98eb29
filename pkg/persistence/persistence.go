// Package persistence provides the storage abstraction for archived execution records.
//
// The engine itself is memory-first: the in-process tracker owns the live run
// table. An archive only receives records once they reach a terminal status,
// so the engine keeps working when no archive is configured.
package persistence

import (
	"context"
	"time"

	"github.com/gridflow-io/gridflow/pkg/models"
)

type Persistence interface {
	// SaveRecord stores a terminal execution record, replacing any previous
	// archive entry for the same execution id.
	SaveRecord(ctx context.Context, record *models.ExecutionRecord) error

	// RecordByID loads one archived record; ErrRecordNotFound when absent.
	RecordByID(ctx context.Context, executionID string) (*models.ExecutionRecord, error)

	// Records lists all archived records.
	Records(ctx context.Context) ([]*models.ExecutionRecord, error)

	// DeleteOlderThan removes records that finished before the cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
