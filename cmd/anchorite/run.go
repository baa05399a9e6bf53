package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"anchorite-hq/anchorite/pkg/config"
	"anchorite-hq/anchorite/pkg/decision"
	"anchorite-hq/anchorite/pkg/mission"
	"anchorite-hq/anchorite/pkg/server"
	"anchorite-hq/anchorite/pkg/session"
	"anchorite-hq/anchorite/pkg/store"
	"anchorite-hq/anchorite/pkg/store/retention"
	"anchorite-hq/anchorite/pkg/telemetry/logging"
	"anchorite-hq/anchorite/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Anchorite daemon",
	Long: `Start the Anchorite daemon with the specified configuration.

The daemon serves the local control API, persists admission decisions, and
supervises the enforcement proxy while a focus session is active.

Examples:
  # Start with default config
  anchorite run

  # Start with custom config
  anchorite run --config /etc/anchorite/config.yaml

  # Override listen address
  anchorite run --listen 127.0.0.1:9000

  # Validate config without starting
  anchorite run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the daemon")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Anchorite v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	// Metrics
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics, prometheus.NewRegistry())
	}

	// Mission document. A missing document is not fatal: the daemon runs
	// with the built-in default mission until one is written.
	m, err := mission.Load(cfg.Mission.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		slog.Warn("mission document not found, using default mission", "path", cfg.Mission.Path)
		m = mission.Default()
	}

	// Decision store
	var storage store.Storage
	switch cfg.Store.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
		storage, err = store.NewSQLiteStorage(&store.SQLiteConfig{
			Path:         cfg.Store.Path,
			MaxOpenConns: cfg.Store.MaxOpenConns,
			WALMode:      true,
			BusyTimeout:  cfg.Store.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to open decision store: %w", err)
		}
	case "memory":
		storage = store.NewMemoryStorage()
	default:
		return fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
	defer storage.Close()

	// Decision engine
	engineConfig := &decision.Config{
		CacheTTL:            cfg.Decision.CacheTTL,
		Threshold:           cfg.Decision.Threshold,
		WeightsPath:         cfg.Decision.WeightsPath,
		FetchTimeout:        cfg.Decision.FetchTimeout,
		FetchWorkers:        cfg.Decision.FetchWorkers,
		StatsFlushEvery:     cfg.Decision.StatsFlushEvery,
		ExtraAllowedDomains: cfg.Decision.ExtraAllowedDomains,
		ExtraBlockedDomains: cfg.Decision.ExtraBlockedDomains,
	}
	engine := decision.NewEngine(engineConfig, m, storage, collector, decision.NewHTTPFetcher(0))
	fmt.Println("✓ Decision engine initialized")

	// Mission hot reload
	if cfg.Mission.Watch {
		watcher := mission.NewWatcher(cfg.Mission.Path, cfg.Mission.DebounceInterval, nil)
		err := watcher.Start(func() error {
			reloaded, err := mission.Load(cfg.Mission.Path)
			if err != nil {
				return err
			}
			engine.SetMission(reloaded)
			return nil
		})
		if err != nil {
			slog.Warn("failed to start mission watcher", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Retention pruning
	if cfg.Store.PruneSchedule != "" {
		pruner := retention.NewPruner(storage, &retention.Config{
			RetentionDays: cfg.Store.RetentionDays,
			MaxRecords:    cfg.Store.MaxRecords,
			PruneSchedule: cfg.Store.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer pruner.Stop()
		}
	}

	// Session supervisor
	if err := os.MkdirAll(filepath.Dir(cfg.Session.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create session store directory: %w", err)
	}
	sessionStore, err := session.NewStore(cfg.Session.Path)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer sessionStore.Close()

	runner := session.NewExecRunner(cfg.Session.ProxyCommand, cfg.Session.ProxyArgs)
	supervisor := session.NewSupervisor(&session.Config{
		HealthInterval:     cfg.Session.HealthInterval,
		ExpiryInterval:     cfg.Session.ExpiryInterval,
		MaxRestartAttempts: cfg.Session.MaxRestartAttempts,
		StopTimeout:        cfg.Session.StopTimeout,
	}, sessionStore, runner, collector)
	if err := supervisor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session supervisor: %w", err)
	}
	defer supervisor.Stop()

	srv := server.NewServer(cfg.Server, engine, supervisor, collector)

	fmt.Printf("✓ Control API on http://%s\n", cfg.Server.ListenAddress)
	if cfg.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Blocks until a signal, context cancellation or RequestShutdown.
	return srv.Start(ctx)
}

// loadConfig loads the configured file. When the default config file is
// absent the built-in defaults are used, so the daemon runs out of the box;
// an explicitly named file must exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); errors.Is(err, os.ErrNotExist) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config file %q does not exist", cfgFile)
	}
	return config.LoadConfigWithEnvOverrides(cfgFile)
}
