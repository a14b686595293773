package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tessera-hq/tessera/pkg/config"
)

// Pruner applies the retention policy to a report store.
type Pruner struct {
	store  Store
	cfg    config.HistoryConfig
	logger *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewPruner creates a pruner over the store with the given retention
// settings.
func NewPruner(store Store, cfg config.HistoryConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		cfg:    cfg,
		logger: logger.With("component", "history.pruner"),
		now:    time.Now,
	}
}

// Prune runs one retention pass: reports older than RetentionDays are
// deleted, then the store is trimmed to MaxRecords. Returns the number of
// deleted reports.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var cutoff time.Time
	if p.cfg.RetentionDays > 0 {
		cutoff = p.now().UTC().AddDate(0, 0, -p.cfg.RetentionDays)
	}

	deleted, err := p.store.Prune(ctx, cutoff, p.cfg.MaxRecords)
	if err != nil {
		return deleted, fmt.Errorf("retention pruning failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned validation reports",
			"deleted", deleted,
			"retention_days", p.cfg.RetentionDays,
			"max_records", p.cfg.MaxRecords,
		)
	}
	return deleted, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: pruner.logger.With("component", "history.scheduler"),
	}
}

// Start begins scheduled pruning per the configured cron expression. An
// empty PruneSchedule leaves the scheduler idle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.cfg.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.pruner.Prune(ctx); err != nil {
			s.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.cfg.RetentionDays,
		"max_records", s.pruner.cfg.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled pruning. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}
