package cvs

import (
	"context"
	"errors"
)

// ErrNotFound indicates a missing or unauthorized CV.
var ErrNotFound = errors.New("cv not found")

// Repo defines persistence operations for CV documents. All reads are scoped
// to the owning user and exclude soft-deleted documents.
type Repo interface {
	Create(ctx context.Context, cv CV) (string, error)
	GetByID(ctx context.Context, userID, cvID string) (CV, error)
	Save(ctx context.Context, cv CV) error
	// GetMaster returns the user's oldest non-deleted CV without a tailored record.
	GetMaster(ctx context.Context, userID string) (CV, error)
}
