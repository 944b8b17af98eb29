package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultSweepSchedule = "@hourly"

// Sweeper periodically removes archived records older than the retention
// window.
type Sweeper struct {
	archive  Persistence
	logger   *slog.Logger
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepSchedule overrides the cron schedule for retention sweeps. The
// default is hourly.
func WithSweepSchedule(schedule string) SweeperOption {
	return func(s *Sweeper) {
		s.schedule = schedule
	}
}

// NewSweeper creates a retention sweeper deleting records that finished more
// than maxAge ago.
func NewSweeper(logger *slog.Logger, archive Persistence, maxAge time.Duration, opts ...SweeperOption) *Sweeper {
	sweeper := &Sweeper{
		archive:  archive,
		logger:   logger,
		maxAge:   maxAge,
		schedule: defaultSweepSchedule,
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	return sweeper
}

// Start schedules the sweep and begins running it. It returns an error when
// the schedule expression is invalid.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Retention sweeper started", "schedule", s.schedule, "max_age", s.maxAge)

	return nil
}

// Sweep runs one retention pass.
func (s *Sweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.maxAge)

	deleted, err := s.archive.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Retention sweep failed", "error", err)

		return
	}

	if deleted > 0 {
		s.logger.InfoContext(ctx, "Retention sweep removed expired records", "deleted", deleted)
	}
}

// Stop halts scheduled sweeps and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}

	<-s.cron.Stop().Done()
}
