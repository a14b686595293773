package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and ephemeral deployments.
// Reports are lost on process exit.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []*Report
	byID    map[string]*Report
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*Report),
	}
}

// Save records a report.
func (s *MemoryStore) Save(_ context.Context, report *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.reports = append(s.reports, report)
	s.byID[report.ID] = report
	return nil
}

// Get retrieves a report by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	report, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return report, nil
}

// List returns reports newest first.
func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var out []*Report
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.reports[i]
		if opts.OnlyInvalid && r.Valid {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Count returns the number of stored reports.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}
	return int64(len(s.reports)), nil
}

// Prune deletes reports older than cutoff, then trims to maxRecords.
func (s *MemoryStore) Prune(_ context.Context, cutoff time.Time, maxRecords int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	before := len(s.reports)

	if !cutoff.IsZero() {
		kept := s.reports[:0]
		for _, r := range s.reports {
			if r.CreatedAt.Before(cutoff) {
				delete(s.byID, r.ID)
				continue
			}
			kept = append(kept, r)
		}
		s.reports = kept
	}

	if maxRecords > 0 && len(s.reports) > maxRecords {
		drop := s.reports[:len(s.reports)-maxRecords]
		for _, r := range drop {
			delete(s.byID, r.ID)
		}
		s.reports = s.reports[len(s.reports)-maxRecords:]
	}

	return int64(before - len(s.reports)), nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
