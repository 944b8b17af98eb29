// Package redis provides a Redis-backed archive for execution records.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gridflow-io/gridflow/pkg/models"
	"github.com/gridflow-io/gridflow/pkg/persistence"
)

const (
	recordKeyPrefix = "gridflow:executions:"
	indexKey        = "gridflow:executions:index"
)

// Persistence archives execution records as JSON values, with a sorted set
// indexing records by finish time for listing and retention sweeps.
type Persistence struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewPersistence creates a Redis archive from a redis:// connection URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{client: client, logger: logger}, nil
}

func (p *Persistence) SaveRecord(ctx context.Context, record *models.ExecutionRecord) error {
	if !record.Status.Terminal() {
		return persistence.NewRecordError("Save", record.ExecutionID, persistence.ErrRecordNotTerminal)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	score := float64(record.FinishedAt.Unix())

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, recordKeyPrefix+record.ExecutionID, data, 0)
	pipe.ZAdd(ctx, indexKey, goredis.Z{Score: score, Member: record.ExecutionID})

	_, err = pipe.Exec(ctx)
	if err != nil {
		return persistence.NewRecordError("Save", record.ExecutionID, err)
	}

	return nil
}

func (p *Persistence) RecordByID(ctx context.Context, executionID string) (*models.ExecutionRecord, error) {
	data, err := p.client.Get(ctx, recordKeyPrefix+executionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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

// Records returns all archived records, most recently finished first.
func (p *Persistence) Records(ctx context.Context) ([]*models.ExecutionRecord, error) {
	ids, err := p.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list archived records: %w", err)
	}

	records := make([]*models.ExecutionRecord, 0, len(ids))

	for _, id := range ids {
		record, err := p.RecordByID(ctx, id)
		if err != nil {
			if persistence.IsRecordNotFound(err) {
				// Index entry without a value, drop it from the index.
				p.client.ZRem(ctx, indexKey, id)

				continue
			}

			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (p *Persistence) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	maxScore := fmt.Sprintf("(%d", cutoff.Unix())

	ids, err := p.client.ZRangeByScore(ctx, indexKey, &goredis.ZRangeBy{
		Min: "-inf",
		Max: maxScore,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to find expired records: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids))
	members := make([]any, 0, len(ids))

	for _, id := range ids {
		keys = append(keys, recordKeyPrefix+id)
		members = append(members, id)
	}

	pipe := p.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, indexKey, members...)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}

	return len(ids), nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
