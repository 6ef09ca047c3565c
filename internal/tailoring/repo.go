package tailoring

import (
	"context"
	"errors"
)

// ErrRunNotFound marks a missing or foreign run.
var ErrRunNotFound = errors.New("tailoring run not found")

// RunRepo defines persistence operations for tailoring runs.
type RunRepo interface {
	Create(ctx context.Context, run Run) (string, error)
	// Get returns the run unscoped; workers load runs without a user context.
	Get(ctx context.Context, runID string) (Run, error)
	// GetForUser returns the run only if it belongs to the user.
	GetForUser(ctx context.Context, userID, runID string) (Run, error)
	Save(ctx context.Context, run Run) error
}
