// Package postgresql provides the PostgreSQL execution archive.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence/sqlbase"
)

// Persistence implements the execution archive on top of PostgreSQL.
type Persistence struct {
	db         *sql.DB
	logger     *slog.Logger
	recordRepo *RecordRepository
}

// NewPersistence creates a new PostgreSQL archive and runs schema migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())
	recordRepo := NewRecordRepository(database, logger)

	postgres := &Persistence{
		db:         database,
		logger:     logger,
		recordRepo: recordRepo,
	}

	// Run migrations on initialization
	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// SaveRecord archives a terminal execution record.
func (p *Persistence) SaveRecord(ctx context.Context, record *models.ExecutionRecord) error {
	return p.recordRepo.Save(ctx, record)
}

// RecordByID returns an archived record by its execution ID.
func (p *Persistence) RecordByID(ctx context.Context, executionID string) (*models.ExecutionRecord, error) {
	return p.recordRepo.GetByID(ctx, executionID)
}

// Records returns all archived execution records.
func (p *Persistence) Records(ctx context.Context) ([]*models.ExecutionRecord, error) {
	return p.recordRepo.GetAll(ctx)
}

// DeleteOlderThan removes archived records that finished before the cutoff.
func (p *Persistence) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return p.recordRepo.DeleteOlderThan(ctx, cutoff)
}
