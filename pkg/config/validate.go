package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid values. It is called after
// defaults are applied, so every field is expected to be populated.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateUpstream(&cfg.Upstream); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := validateHistory(&cfg.History); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := validateLogging(&cfg.Telemetry.Logging); err != nil {
		return fmt.Errorf("telemetry.logging: %w", err)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen_address %q: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return fmt.Errorf("max_header_bytes must not be negative")
	}
	return nil
}

func validateUpstream(cfg *UpstreamConfig) error {
	if cfg.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must use http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func validateHistory(cfg *HistoryConfig) error {
	switch strings.ToLower(cfg.Backend) {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown backend %q (expected memory or sqlite)", cfg.Backend)
	}
	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		return fmt.Errorf("sqlite backend requires sqlite_path")
	}
	if cfg.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative")
	}
	if cfg.MaxRecords < 0 {
		return fmt.Errorf("max_records must not be negative")
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			return fmt.Errorf("invalid prune_schedule %q: %w", cfg.PruneSchedule, err)
		}
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
	return nil
}
