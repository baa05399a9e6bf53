package config

import "time"

// Config is the top-level Anchorite configuration, normally loaded from a
// YAML file via LoadConfig. Zero values are filled in by ApplyDefaults and
// checked by Validate before use.
type Config struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Mission configures the mission document location and hot reload.
	Mission MissionConfig `yaml:"mission"`

	// Decision configures the admission decision engine.
	Decision DecisionConfig `yaml:"decision"`

	// Store configures decision persistence and retention.
	Store StoreConfig `yaml:"store"`

	// Session configures the session supervisor.
	Session SessionConfig `yaml:"session"`

	// Server configures the local control API.
	Server ServerConfig `yaml:"server"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json" or "text").
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MissionConfig controls the mission document.
type MissionConfig struct {
	// Path is the mission YAML document path.
	Path string `yaml:"path"`

	// Watch enables fsnotify-based hot reload of the mission document.
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period before a reload fires after a
	// file change burst.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// DecisionConfig controls the admission decision engine.
type DecisionConfig struct {
	// CacheTTL is the verdict cache entry lifetime.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Threshold is the classifier allow threshold. Confidence strictly
	// greater than the threshold allows; an exact tie blocks.
	Threshold float64 `yaml:"threshold"`

	// WeightsPath is the classifier weight file path. A missing or corrupt
	// file degrades to an untrained network, it does not fail startup.
	WeightsPath string `yaml:"weights_path"`

	// FetchTimeout bounds a slow-path metadata fetch. It must be shorter
	// than the fetcher's own internal timeout so the caller gets the
	// tighter bound.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// FetchWorkers caps concurrent outbound metadata fetches.
	FetchWorkers int `yaml:"fetch_workers"`

	// StatsFlushEvery flushes a statistics snapshot to the store every N
	// feedback events.
	StatsFlushEvery int `yaml:"stats_flush_every"`

	// ExtraAllowedDomains extends the educational allow tier.
	ExtraAllowedDomains []string `yaml:"extra_allowed_domains"`

	// ExtraBlockedDomains extends the distraction block tier.
	ExtraBlockedDomains []string `yaml:"extra_blocked_domains"`
}

// StoreConfig controls the decision store backend.
type StoreConfig struct {
	// Backend selects the store implementation ("sqlite" or "memory").
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// MaxOpenConns limits open database connections.
	MaxOpenConns int `yaml:"max_open_conns"`

	// RetentionDays prunes decisions older than this many days. Zero
	// disables age-based pruning.
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the decision table size. Zero disables the cap.
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning. Empty
	// disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// SessionConfig controls the session supervisor.
type SessionConfig struct {
	// Path is the session database file path.
	Path string `yaml:"path"`

	// ProxyCommand is the enforcement proxy executable.
	ProxyCommand string `yaml:"proxy_command"`

	// ProxyArgs are passed to the enforcement proxy.
	ProxyArgs []string `yaml:"proxy_args"`

	// HealthInterval is the watchdog poll interval.
	HealthInterval time.Duration `yaml:"health_interval"`

	// ExpiryInterval is the wall-clock expiry poll interval.
	ExpiryInterval time.Duration `yaml:"expiry_interval"`

	// MaxRestartAttempts bounds consecutive proxy restart failures before
	// the session is emergency-terminated.
	MaxRestartAttempts int `yaml:"max_restart_attempts"`

	// StopTimeout is how long a graceful proxy terminate may take before
	// the process is force-killed.
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

// ServerConfig controls the local HTTP control API.
type ServerConfig struct {
	// ListenAddress is the bind address, loopback by default.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful server shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem prefix.
	Subsystem string `yaml:"subsystem"`
}
