// Package db holds the run stores: the fixture set used when no store is
// configured, the Supabase/PostgREST store and a direct Postgres store.
package db

import (
	"context"
	"errors"

	"recipeadmin/models"
)

const (
	runsTable    = "recipe_processing_run"
	sendersTable = "sender"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunStore is the read/write surface the listing service needs from a backing store.
type RunStore interface {
	// CountRuns returns the total number of runs.
	CountRuns(ctx context.Context) (int, error)
	// ListRuns returns up to limit runs starting at offset, newest first.
	ListRuns(ctx context.Context, offset, limit int) ([]models.ProcessingRun, error)
	GetRun(ctx context.Context, id int64) (*models.ProcessingRun, error)
	// UpdateFeedback writes the feedback column only and returns the updated run.
	UpdateFeedback(ctx context.Context, id int64, feedback string) (*models.ProcessingRun, error)
	Close() error
}
