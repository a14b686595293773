package rules

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"tessera-hq/tessera/pkg/compat"
)

// Manager owns the live validator and swaps in a new one whenever the rule
// table reloads. Readers call Validator() and get a fully built, immutable
// snapshot; reloads never mutate a table that traffic is reading.
type Manager struct {
	path      string
	logger    *slog.Logger
	validator atomic.Pointer[compat.Validator]
	reloads   atomic.Int64
	onReload  atomic.Pointer[func(error)]
}

// NewManager builds a manager over the rule file at path. An empty path
// means the built-in default table with no reloading.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		path:   path,
		logger: logger.With("component", "rules.manager"),
	}

	registry := compat.DefaultRegistry()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		registry = loaded
	}

	m.validator.Store(compat.New(registry))
	m.logger.Info("rule table loaded",
		"path", path,
		"pairs", registry.Len(),
	)
	return m, nil
}

// Validator returns the current validator snapshot.
func (m *Manager) Validator() *compat.Validator {
	return m.validator.Load()
}

// Reloads returns how many successful reloads have occurred.
func (m *Manager) Reloads() int64 {
	return m.reloads.Load()
}

// OnReload registers a hook observing every reload attempt with its
// outcome. Metrics recording hangs off this without the manager knowing
// about collectors.
func (m *Manager) OnReload(hook func(error)) {
	m.onReload.Store(&hook)
}

func (m *Manager) notifyReload(err error) {
	if hook := m.onReload.Load(); hook != nil {
		(*hook)(err)
	}
}

// Reload re-reads the rule file and atomically swaps in the new table.
// On any load error the previous table stays live and the error is
// returned for the caller to report.
func (m *Manager) Reload() error {
	if m.path == "" {
		return fmt.Errorf("no rule file configured")
	}

	registry, err := Load(m.path)
	if err != nil {
		m.logger.Error("rule reload failed, keeping previous table", "error", err)
		m.notifyReload(err)
		return err
	}

	m.validator.Store(compat.New(registry))
	m.reloads.Add(1)
	m.logger.Info("rule table reloaded", "path", m.path, "pairs", registry.Len())
	m.notifyReload(nil)
	return nil
}

// Watch blocks, reloading the rule table whenever the file changes, until
// the context is cancelled. It is a no-op when no rule file is configured.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		return nil
	}

	watcher, err := NewFileWatcher(m.path, 0, m.logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Watch(ctx, func() {
		// Reload already logged the failure; a watch loop has nobody
		// else to report it to.
		_ = m.Reload()
	})
}
