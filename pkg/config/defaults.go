package config

import "time"

// DefaultConfig returns a configuration populated with every default value.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Explicitly set
// values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Mission.Path == "" {
		cfg.Mission.Path = "data/mission.yaml"
	}
	if cfg.Mission.DebounceInterval == 0 {
		cfg.Mission.DebounceInterval = 100 * time.Millisecond
	}

	if cfg.Decision.CacheTTL == 0 {
		cfg.Decision.CacheTTL = 5 * time.Minute
	}
	if cfg.Decision.Threshold == 0 {
		cfg.Decision.Threshold = 0.5
	}
	if cfg.Decision.WeightsPath == "" {
		cfg.Decision.WeightsPath = "data/classifier_weights.json"
	}
	if cfg.Decision.FetchTimeout == 0 {
		cfg.Decision.FetchTimeout = 2 * time.Second
	}
	if cfg.Decision.FetchWorkers == 0 {
		cfg.Decision.FetchWorkers = 3
	}
	if cfg.Decision.StatsFlushEvery == 0 {
		cfg.Decision.StatsFlushEvery = 100
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/decisions.db"
	}
	if cfg.Store.BusyTimeout == 0 {
		cfg.Store.BusyTimeout = 5 * time.Second
	}
	if cfg.Store.MaxOpenConns == 0 {
		cfg.Store.MaxOpenConns = 10
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = "data/session.db"
	}
	if cfg.Session.HealthInterval == 0 {
		cfg.Session.HealthInterval = 5 * time.Second
	}
	if cfg.Session.ExpiryInterval == 0 {
		cfg.Session.ExpiryInterval = time.Minute
	}
	if cfg.Session.MaxRestartAttempts == 0 {
		cfg.Session.MaxRestartAttempts = 10
	}
	if cfg.Session.StopTimeout == 0 {
		cfg.Session.StopTimeout = 10 * time.Second
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8941"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "anchorite"
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = "core"
	}
}
