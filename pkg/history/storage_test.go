package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tessera-hq/tessera/pkg/compat"
)

func sampleResult() compat.Result {
	return compat.Result{
		Valid:  false,
		Errors: []string{"item count exceeds limit: 8 > 6"},
		Fixes:  &compat.SuggestedFix{Variant: "compact", MaxItems: 6},
	}
}

// storeUnderTest runs the shared Store contract against a backend.
func storeUnderTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	report := NewReport(compat.ComponentChecklist, compat.SpaceSixthWidth, sampleResult())
	if err := store.Save(ctx, report); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, report.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Component != compat.ComponentChecklist || got.Space != compat.SpaceSixthWidth {
		t.Errorf("pair = (%s, %s)", got.Component, got.Space)
	}
	if got.Valid {
		t.Error("Valid flag lost")
	}
	if len(got.Errors) != 1 || got.Errors[0] != "item count exceeds limit: 8 > 6" {
		t.Errorf("Errors = %v", got.Errors)
	}
	if got.Fixes == nil || got.Fixes.MaxItems != 6 || got.Fixes.Variant != "compact" {
		t.Errorf("Fixes = %+v", got.Fixes)
	}

	if _, err := store.Get(ctx, "no-such-id"); err != ErrNotFound {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	// A clean report stores without a fix bundle.
	clean := NewReport(compat.ComponentMetricsGrid, compat.SpaceHalfWidth, compat.Result{Valid: true})
	if err := store.Save(ctx, clean); err != nil {
		t.Fatalf("Save clean: %v", err)
	}
	gotClean, err := store.Get(ctx, clean.ID)
	if err != nil {
		t.Fatalf("Get clean: %v", err)
	}
	if !gotClean.Valid || gotClean.Fixes != nil {
		t.Errorf("clean report = %+v", gotClean)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}

	invalid, err := store.List(ctx, ListOptions{OnlyInvalid: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(invalid) != 1 || invalid[0].ID != report.ID {
		t.Errorf("OnlyInvalid listing = %v", invalid)
	}

	all, err := store.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("listing length = %d, want 2", len(all))
	}
}

func TestMemoryStore_Contract(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	storeUnderTest(t, store)
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()
	storeUnderTest(t, store)
}

func TestSQLiteStore_PragmasApplied(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	var mode string
	if err := store.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var busy int
	if err := store.db.QueryRow("PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busy != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busy)
	}
}

func pruneUnderTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	old := NewReport(compat.ComponentChecklist, compat.SpaceSixthWidth, sampleResult())
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	recent := NewReport(compat.ComponentChecklist, compat.SpaceSixthWidth, sampleResult())

	for _, r := range []*Report{old, recent} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	deleted, err := store.Prune(ctx, time.Now().UTC().Add(-24*time.Hour), 0)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := store.Get(ctx, old.ID); err != ErrNotFound {
		t.Error("old report should be gone")
	}
	if _, err := store.Get(ctx, recent.ID); err != nil {
		t.Errorf("recent report should survive: %v", err)
	}
}

func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	pruneUnderTest(t, store)
}

func TestSQLiteStore_Prune(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()
	pruneUnderTest(t, store)
}

func TestMemoryStore_TrimToMax(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	var ids []string
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		r := NewReport(compat.ComponentChecklist, compat.SpaceSixthWidth, sampleResult())
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, r.ID)
	}

	deleted, err := store.Prune(ctx, time.Time{}, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	// The two newest survive.
	for _, id := range ids[3:] {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("report %s should survive: %v", id, err)
		}
	}
	for _, id := range ids[:3] {
		if _, err := store.Get(ctx, id); err != ErrNotFound {
			t.Errorf("report %s should be trimmed", id)
		}
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore()
	store.Close()

	if err := store.Save(context.Background(), NewReport(compat.ComponentChecklist, compat.SpaceSixthWidth, sampleResult())); err != ErrClosed {
		t.Errorf("Save after close = %v, want ErrClosed", err)
	}
}
