package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Decision.CacheTTL != 5*time.Minute {
		t.Errorf("expected default cache TTL 5m, got %v", cfg.Decision.CacheTTL)
	}
	if cfg.Decision.Threshold != 0.5 {
		t.Errorf("expected default threshold 0.5, got %v", cfg.Decision.Threshold)
	}
	if cfg.Session.MaxRestartAttempts != 10 {
		t.Errorf("expected default max restart attempts 10, got %d", cfg.Session.MaxRestartAttempts)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Decision.Threshold = 0.7
	cfg.Session.HealthInterval = time.Second

	ApplyDefaults(cfg)

	if cfg.Decision.Threshold != 0.7 {
		t.Errorf("explicit threshold overwritten: %v", cfg.Decision.Threshold)
	}
	if cfg.Session.HealthInterval != time.Second {
		t.Errorf("explicit health interval overwritten: %v", cfg.Session.HealthInterval)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
decision:
  threshold: 0.6
  cache_ttl: 10m
session:
  proxy_command: /usr/local/bin/mitmdump
  max_restart_attempts: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Decision.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %v", cfg.Decision.Threshold)
	}
	if cfg.Decision.CacheTTL != 10*time.Minute {
		t.Errorf("expected TTL 10m, got %v", cfg.Decision.CacheTTL)
	}
	if cfg.Session.MaxRestartAttempts != 5 {
		t.Errorf("expected 5 restart attempts, got %d", cfg.Session.MaxRestartAttempts)
	}
	// Defaults still applied for untouched sections.
	if cfg.Server.ListenAddress != "127.0.0.1:8941" {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"threshold above one", func(c *Config) { c.Decision.Threshold = 1.5 }},
		{"negative retention", func(c *Config) { c.Store.RetentionDays = -1 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"bad cron", func(c *Config) { c.Store.PruneSchedule = "not-cron" }},
		{"zero health interval", func(c *Config) { c.Session.HealthInterval = 0 }},
		{"empty listen address", func(c *Config) { c.Server.ListenAddress = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ANCHORITE_LOGGING_LEVEL", "warn")
	t.Setenv("ANCHORITE_DECISION_THRESHOLD", "0.75")
	t.Setenv("ANCHORITE_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("env override for level not applied: %q", cfg.Logging.Level)
	}
	if cfg.Decision.Threshold != 0.75 {
		t.Errorf("env override for threshold not applied: %v", cfg.Decision.Threshold)
	}
	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("env override for listen address not applied: %q", cfg.Server.ListenAddress)
	}
}
