// Package config loads and validates Tessera's YAML configuration.
package config

import "time"

// Config is the root configuration structure for Tessera.
type Config struct {
	// Server contains the HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Upstream configures the analysis API the forwarding routes proxy to.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Rules configures the constraint rule table.
	Rules RulesConfig `yaml:"rules"`

	// History configures persistence of validation reports.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8460"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// UpstreamConfig configures the upstream financial-analysis API that the
// session and message routes forward to. The forwarder passes bytes through
// and never interprets analysis payloads.
type UpstreamConfig struct {
	// BaseURL is the upstream base URL, e.g. "http://analysis:9000".
	// Empty disables the forwarding routes.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each forwarded request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// RulesConfig configures the constraint rule table.
type RulesConfig struct {
	// Path is the rule-table YAML file. Empty uses the built-in defaults.
	Path string `yaml:"path"`

	// Watch reloads the rule table when the file changes.
	Watch bool `yaml:"watch"`
}

// HistoryConfig configures validation-report persistence.
type HistoryConfig struct {
	// Enabled turns report recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the store: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: "tessera-history.db"
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays prunes reports older than this many days. Zero keeps
	// everything.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of retained reports. Zero means no cap.
	// Default: 100000
	MaxRecords int `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning. Empty
	// disables the scheduler.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled exposes the /metrics endpoint.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "tessera"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem label.
	// Default: "compat"
	Subsystem string `yaml:"subsystem"`
}
