package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for values that cannot work at runtime.
// It returns the first problem found.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}

	if cfg.Mission.Path == "" {
		return fmt.Errorf("mission.path: cannot be empty")
	}

	if cfg.Decision.Threshold < 0 || cfg.Decision.Threshold > 1 {
		return fmt.Errorf("decision.threshold: %v outside [0,1]", cfg.Decision.Threshold)
	}
	if cfg.Decision.CacheTTL <= 0 {
		return fmt.Errorf("decision.cache_ttl: must be positive, got %v", cfg.Decision.CacheTTL)
	}
	if cfg.Decision.FetchTimeout <= 0 {
		return fmt.Errorf("decision.fetch_timeout: must be positive, got %v", cfg.Decision.FetchTimeout)
	}
	if cfg.Decision.FetchWorkers <= 0 {
		return fmt.Errorf("decision.fetch_workers: must be positive, got %d", cfg.Decision.FetchWorkers)
	}
	if cfg.Decision.StatsFlushEvery <= 0 {
		return fmt.Errorf("decision.stats_flush_every: must be positive, got %d", cfg.Decision.StatsFlushEvery)
	}

	switch cfg.Store.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("store.backend: unknown backend %q", cfg.Store.Backend)
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("store.path: required for sqlite backend")
	}
	if cfg.Store.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days: cannot be negative, got %d", cfg.Store.RetentionDays)
	}
	if cfg.Store.MaxRecords < 0 {
		return fmt.Errorf("store.max_records: cannot be negative, got %d", cfg.Store.MaxRecords)
	}
	if cfg.Store.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Store.PruneSchedule); err != nil {
			return fmt.Errorf("store.prune_schedule: invalid cron expression %q: %w", cfg.Store.PruneSchedule, err)
		}
	}

	if cfg.Session.HealthInterval <= 0 {
		return fmt.Errorf("session.health_interval: must be positive, got %v", cfg.Session.HealthInterval)
	}
	if cfg.Session.ExpiryInterval <= 0 {
		return fmt.Errorf("session.expiry_interval: must be positive, got %v", cfg.Session.ExpiryInterval)
	}
	if cfg.Session.MaxRestartAttempts <= 0 {
		return fmt.Errorf("session.max_restart_attempts: must be positive, got %d", cfg.Session.MaxRestartAttempts)
	}
	if cfg.Session.StopTimeout <= 0 {
		return fmt.Errorf("session.stop_timeout: must be positive, got %v", cfg.Session.StopTimeout)
	}

	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server.listen_address: cannot be empty")
	}

	return nil
}
