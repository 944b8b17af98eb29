// Package file provides a file-based archive for execution records.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence"
)

const recordsDir = "executions"

// Persistence archives execution records as one JSON file per run.
type Persistence struct {
	root string
}

// NewPersistence creates a file archive rooted at the given directory. A
// "file://" prefix on the root is accepted and stripped.
func NewPersistence(root string) *Persistence {
	return &Persistence{
		root: strings.Replace(root, "file://", "", 1),
	}
}

func (p *Persistence) SaveRecord(_ context.Context, record *models.ExecutionRecord) error {
	if !record.Status.Terminal() {
		return persistence.NewRecordError("Save", record.ExecutionID, persistence.ErrRecordNotTerminal)
	}

	dir := filepath.Join(p.root, recordsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	path := p.recordPath(record.ExecutionID)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	return nil
}

func (p *Persistence) RecordByID(_ context.Context, executionID string) (*models.ExecutionRecord, error) {
	data, err := os.ReadFile(p.recordPath(executionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewRecordError("Get", executionID, persistence.ErrRecordNotFound)
		}

		return nil, persistence.NewRecordError("Get", executionID, err)
	}

	var record models.ExecutionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, persistence.NewRecordError("Get", executionID, err)
	}

	return &record, nil
}

func (p *Persistence) Records(ctx context.Context) ([]*models.ExecutionRecord, error) {
	entries, err := os.ReadDir(filepath.Join(p.root, recordsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list archived records: %w", err)
	}

	records := make([]*models.ExecutionRecord, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		record, err := p.RecordByID(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (p *Persistence) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	records, err := p.Records(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0

	for _, record := range records {
		if record.FinishedAt == nil || !record.FinishedAt.Before(cutoff) {
			continue
		}

		if err := os.Remove(p.recordPath(record.ExecutionID)); err != nil {
			return deleted, persistence.NewRecordError("Delete", record.ExecutionID, err)
		}

		deleted++
	}

	return deleted, nil
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For the file archive there is
// nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) recordPath(executionID string) string {
	return filepath.Join(p.root, recordsDir, executionID+".json")
}
