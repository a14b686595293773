package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \"0.0.0.0:9001\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9001" {
		t.Errorf("ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout default = %v", cfg.Server.ReadTimeout)
	}
	if cfg.History.Backend != "memory" {
		t.Errorf("History backend default = %q", cfg.History.Backend)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Namespace != "tessera" {
		t.Errorf("metrics namespace default = %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "bad listen address",
			yaml:    "server:\n  listen_address: \"no-port\"\n",
			wantErr: "listen_address",
		},
		{
			name:    "bad upstream scheme",
			yaml:    "upstream:\n  base_url: \"ftp://analysis\"\n",
			wantErr: "http or https",
		},
		{
			name:    "unknown history backend",
			yaml:    "history:\n  backend: \"redis\"\n",
			wantErr: "unknown backend",
		},
		{
			name:    "bad prune schedule",
			yaml:    "history:\n  prune_schedule: \"not cron\"\n",
			wantErr: "prune_schedule",
		},
		{
			name:    "unknown log level",
			yaml:    "telemetry:\n  logging:\n    level: \"loud\"\n",
			wantErr: "unknown level",
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:8460\"\n")

	t.Setenv("TESSERA_SERVER_LISTEN_ADDRESS", "127.0.0.1:9999")
	t.Setenv("TESSERA_LOG_LEVEL", "debug")
	t.Setenv("TESSERA_HISTORY_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("env override lost: ListenAddress = %q", cfg.Server.ListenAddress)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("env override lost: Level = %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.History.Enabled {
		t.Error("env override lost: History.Enabled")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
