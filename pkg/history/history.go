// Package history persists validation reports so dashboard authors can
// review what was flagged, when, and with what suggested fix.
//
// Recording is optional and sits outside the validator's hot path: the
// validator itself stays pure, and callers hand completed results to a
// Store after the fact. Two backends are provided: an in-memory store for
// tests and ephemeral deployments, and a SQLite store for durability.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tessera-hq/tessera/pkg/compat"
)

var (
	// ErrNotFound is returned when a report ID does not exist.
	ErrNotFound = errors.New("report not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("history store closed")
)

// Report is one recorded validation outcome.
type Report struct {
	// ID is a UUID assigned at recording time.
	ID string `json:"id"`

	// Component and Space identify the validated pair.
	Component compat.ComponentType `json:"component"`
	Space     compat.SpaceType     `json:"space"`

	// Valid mirrors the result's validity flag.
	Valid bool `json:"valid"`

	// Errors and Warnings are the result's message lists.
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// Fixes is the suggested-fix bundle, if any.
	Fixes *compat.SuggestedFix `json:"suggested_fixes,omitempty"`

	// CreatedAt is when the validation ran.
	CreatedAt time.Time `json:"created_at"`
}

// NewReport builds a report from a validation result.
func NewReport(component compat.ComponentType, space compat.SpaceType, result compat.Result) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Component: component,
		Space:     space,
		Valid:     result.Valid,
		Errors:    result.Errors,
		Warnings:  result.Warnings,
		Fixes:     result.Fixes,
		CreatedAt: time.Now().UTC(),
	}
}

// ListOptions filters and bounds a List call.
type ListOptions struct {
	// Limit caps the number of reports returned, newest first.
	// Zero means the store default of 100.
	Limit int

	// OnlyInvalid restricts the listing to reports with errors.
	OnlyInvalid bool
}

// Store persists validation reports.
type Store interface {
	// Save records a report.
	Save(ctx context.Context, report *Report) error

	// Get retrieves a report by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns reports newest first.
	List(ctx context.Context, opts ListOptions) ([]*Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) (int64, error)

	// Prune deletes reports older than cutoff, then trims to maxRecords
	// (newest kept) when maxRecords is positive. It returns how many
	// reports were deleted. A zero cutoff skips age-based pruning.
	Prune(ctx context.Context, cutoff time.Time, maxRecords int) (int64, error)

	// Close releases the store's resources.
	Close() error
}

const defaultListLimit = 100
