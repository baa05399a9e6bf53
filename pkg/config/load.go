package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides of the form ANCHORITE_SECTION_FIELD
// (e.g. ANCHORITE_SERVER_LISTEN_ADDRESS). Environment variables always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies ANCHORITE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ANCHORITE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ANCHORITE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("ANCHORITE_MISSION_PATH"); val != "" {
		cfg.Mission.Path = val
	}

	if val := os.Getenv("ANCHORITE_DECISION_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Decision.CacheTTL = d
		}
	}
	if val := os.Getenv("ANCHORITE_DECISION_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Decision.Threshold = f
		}
	}
	if val := os.Getenv("ANCHORITE_DECISION_WEIGHTS_PATH"); val != "" {
		cfg.Decision.WeightsPath = val
	}
	if val := os.Getenv("ANCHORITE_DECISION_FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Decision.FetchTimeout = d
		}
	}

	if val := os.Getenv("ANCHORITE_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("ANCHORITE_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}

	if val := os.Getenv("ANCHORITE_SESSION_PATH"); val != "" {
		cfg.Session.Path = val
	}
	if val := os.Getenv("ANCHORITE_SESSION_PROXY_COMMAND"); val != "" {
		cfg.Session.ProxyCommand = val
	}
	if val := os.Getenv("ANCHORITE_SESSION_MAX_RESTART_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Session.MaxRestartAttempts = i
		}
	}

	if val := os.Getenv("ANCHORITE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}

	if val := os.Getenv("ANCHORITE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
