package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence"
)

// RecordRepository handles execution record database operations.
type RecordRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *sql.DB, logger *slog.Logger) *RecordRepository {
	return &RecordRepository{db: db, logger: logger}
}

// Save archives a terminal execution record, replacing any previous entry
// for the same execution id.
func (r *RecordRepository) Save(ctx context.Context, record *models.ExecutionRecord) error {
	if !record.Status.Terminal() {
		return persistence.NewRecordError("Save", record.ExecutionID, persistence.ErrRecordNotTerminal)
	}

	orderJSON, err := json.Marshal(record.ExecutionOrder)
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, fmt.Errorf("failed to marshal execution order: %w", err))
	}

	messagesJSON, err := json.Marshal(record.ErrorMessages)
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, fmt.Errorf("failed to marshal error messages: %w", err))
	}

	query := `
		INSERT INTO executions (execution_id, graph_id, status,
			total_nodes, executed_nodes, failed_nodes, skipped_nodes,
			execution_order, error_messages, error_message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (execution_id) DO UPDATE SET
			graph_id = EXCLUDED.graph_id,
			status = EXCLUDED.status,
			total_nodes = EXCLUDED.total_nodes,
			executed_nodes = EXCLUDED.executed_nodes,
			failed_nodes = EXCLUDED.failed_nodes,
			skipped_nodes = EXCLUDED.skipped_nodes,
			execution_order = EXCLUDED.execution_order,
			error_messages = EXCLUDED.error_messages,
			error_message = EXCLUDED.error_message,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ExecutionID,
		record.GraphID,
		record.Status,
		record.TotalNodes,
		record.ExecutedNodes,
		record.FailedNodes,
		record.SkippedNodes,
		orderJSON,
		messagesJSON,
		nullableString(record.Error),
		record.StartedAt,
		record.FinishedAt,
	)
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	return nil
}

// GetByID returns an archived record by its execution id.
func (r *RecordRepository) GetByID(ctx context.Context, executionID string) (*models.ExecutionRecord, error) {
	query := `
		SELECT
			execution_id
		  , graph_id
		  , status
		  , total_nodes
		  , executed_nodes
		  , failed_nodes
		  , skipped_nodes
		  , execution_order
		  , error_messages
		  , error_message
		  , started_at
		  , finished_at
		FROM executions
		WHERE execution_id = $1
	`

	row := r.db.QueryRowContext(ctx, query, executionID)

	record, err := r.scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRecordError("Get", executionID, persistence.ErrRecordNotFound)
		}

		return nil, persistence.NewRecordError("Get", executionID, err)
	}

	return record, nil
}

// GetAll returns all archived records, most recently finished first.
func (r *RecordRepository) GetAll(ctx context.Context) ([]*models.ExecutionRecord, error) {
	query := `
		SELECT
			execution_id
		  , graph_id
		  , status
		  , total_nodes
		  , executed_nodes
		  , failed_nodes
		  , skipped_nodes
		  , execution_order
		  , error_messages
		  , error_message
		  , started_at
		  , finished_at
		FROM executions
		ORDER BY finished_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.ExecutionRecord, 0)

	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution record: %w", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return records, nil
}

// DeleteOlderThan removes records that finished before the cutoff.
func (r *RecordRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM executions WHERE finished_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired executions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

func (r *RecordRepository) scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*models.ExecutionRecord, error) {
	var (
		record       models.ExecutionRecord
		orderJSON    []byte
		messagesJSON []byte
		errorMessage sql.NullString
		finishedAt   time.Time
	)

	err := scanner.Scan(
		&record.ExecutionID,
		&record.GraphID,
		&record.Status,
		&record.TotalNodes,
		&record.ExecutedNodes,
		&record.FailedNodes,
		&record.SkippedNodes,
		&orderJSON,
		&messagesJSON,
		&errorMessage,
		&record.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderJSON != nil {
		err := json.Unmarshal(orderJSON, &record.ExecutionOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution order: %w", err)
		}
	}

	if messagesJSON != nil {
		err := json.Unmarshal(messagesJSON, &record.ErrorMessages)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal error messages: %w", err)
		}
	}

	record.Error = errorMessage.String
	record.FinishedAt = &finishedAt

	return &record, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
