package retention

import (
	"context"
	"log/slog"
	"time"

	"anchorite-hq/anchorite/pkg/store"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain decisions.
	// 0 means keep decisions forever (no age-based pruning).
	RetentionDays int

	// MaxRecords is the maximum number of decisions to keep.
	// 0 means unlimited.
	MaxRecords int64

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables scheduling.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		MaxRecords:    0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention policy on the decision log.
type Pruner struct {
	storage   store.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a new retention pruner.
func NewPruner(storage store.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "store.retention"),
		now:     time.Now,
	}
	pruner.scheduler = NewScheduler(pruner)
	return pruner
}

// Prune removes decisions older than the retention period, then trims
// the log to MaxRecords. It returns the number of rows removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 && p.config.MaxRecords <= 0 {
		return 0, nil
	}

	cutoff := time.Time{}
	if p.config.RetentionDays > 0 {
		cutoff = p.now().AddDate(0, 0, -p.config.RetentionDays)
	}

	removed, err := p.storage.Prune(ctx, cutoff, p.config.MaxRecords)
	if err != nil {
		return removed, err
	}
	if removed > 0 {
		p.logger.Info("pruned decision log",
			"removed", removed,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return removed, nil
}

// Start begins scheduled pruning. A no-op when PruneSchedule is empty.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning and waits for a running cycle to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}
