//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tessera-hq/tessera/pkg/config"
	"tessera-hq/tessera/pkg/history"
	"tessera-hq/tessera/pkg/rules"
	"tessera-hq/tessera/pkg/server"
)

// startTestServer wires the full stack (default rule table, in-memory
// history, HTTP server) and blocks until the health endpoint responds.
func startTestServer(t *testing.T, addr string) (context.CancelFunc, history.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddress = addr
	cfg.History.Enabled = true

	manager, err := rules.NewManager("", nil)
	if err != nil {
		t.Fatalf("failed to create rule manager: %v", err)
	}

	store := history.NewMemoryStore()

	srv, err := server.New(server.Options{
		Config:      cfg,
		RuleManager: manager,
		Store:       store,
	})
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.Start(ctx); err != nil {
			t.Logf("server exited: %v", err)
		}
	}()

	if err := waitForHealth(addr, 5*time.Second); err != nil {
		cancel()
		t.Fatalf("server never became healthy: %v", err)
	}
	return cancel, store
}

func waitForHealth(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://%s/healthz", addr)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("health endpoint not ready after %s", timeout)
}

func postValidate(t *testing.T, addr, payload string) map[string]any {
	t.Helper()

	url := fmt.Sprintf("http://%s/v1/validate", addr)
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("POST /v1/validate failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/validate status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestValidateEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	const addr = "127.0.0.1:18460"
	cancel, store := startTestServer(t, addr)
	defer cancel()

	// A checklist with 3 items fits a sixth-width slot.
	body := postValidate(t, addr, `{
		"component": "checklist",
		"space": "sixth-width",
		"props": {"items": ["review", "approve", "file"]}
	}`)
	if valid, _ := body["valid"].(bool); !valid {
		t.Errorf("valid = %v, want true (body: %v)", body["valid"], body)
	}

	// 8 items breach the hard limit of 6.
	body = postValidate(t, addr, `{
		"component": "checklist",
		"space": "sixth-width",
		"props": {"items": ["a", "b", "c", "d", "e", "f", "g", "h"]}
	}`)
	if valid, _ := body["valid"].(bool); valid {
		t.Errorf("valid = %v, want false (body: %v)", body["valid"], body)
	}
	if _, ok := body["suggested_fixes"]; !ok {
		t.Error("expected suggested_fixes for a hard-limit breach")
	}

	// The invalid report was recorded in history.
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("store.Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("store.Count() = %d, want 2", count)
	}
}

func TestRulesEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	const addr = "127.0.0.1:18461"
	cancel, _ := startTestServer(t, addr)
	defer cancel()

	url := fmt.Sprintf("http://%s/v1/rules", addr)
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET /v1/rules failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /v1/rules status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body struct {
		Rules []map[string]any `json:"rules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode rule listing: %v", err)
	}
	if len(body.Rules) == 0 {
		t.Error("expected at least one rule in the default table")
	}
}
