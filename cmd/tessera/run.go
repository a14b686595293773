package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tessera-hq/tessera/pkg/config"
	"tessera-hq/tessera/pkg/history"
	"tessera-hq/tessera/pkg/rules"
	"tessera-hq/tessera/pkg/server"
	"tessera-hq/tessera/pkg/telemetry/logging"
	"tessera-hq/tessera/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	rulesPath     string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Tessera validation server",
	Long: `Start the Tessera validation server with the specified configuration.

The server exposes the component/layout compatibility validator over HTTP,
forwards session and message traffic to the upstream analysis API, and
optionally records validation reports for later inspection.

Examples:
  # Start with the built-in defaults
  tessera run

  # Start with a custom config
  tessera run --config /etc/tessera/config.yaml

  # Override listen address
  tessera run --listen 0.0.0.0:8460

  # Validate config without starting the server
  tessera run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.rulesPath, "rules", "", "override rule table file")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func loadRunConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile == "" {
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.rulesPath != "" {
		cfg.Rules.Path = runFlags.rulesPath
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	manager, err := rules.NewManager(cfg.Rules.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to load rule table: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Rules.Watch && cfg.Rules.Path != "" {
		go func() {
			if err := manager.Watch(ctx); err != nil {
				logger.Error("rule file watcher stopped", "error", err)
			}
		}()
	}

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
		manager.OnReload(collector.RecordRuleReload)
	}

	var store history.Store
	if cfg.History.Enabled {
		switch cfg.History.Backend {
		case "sqlite":
			store, err = history.NewSQLiteStore(cfg.History.SQLitePath)
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
		default:
			store = history.NewMemoryStore()
		}
		defer store.Close()

		if cfg.History.PruneSchedule != "" {
			pruner := history.NewPruner(store, cfg.History, logger)
			scheduler := history.NewScheduler(pruner)
			if err := scheduler.Start(ctx); err != nil {
				logger.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer scheduler.Stop()
			}
		}
	}

	srv, err := server.New(server.Options{
		Config:      cfg,
		Logger:      logger,
		RuleManager: manager,
		Collector:   collector,
		Store:       store,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
