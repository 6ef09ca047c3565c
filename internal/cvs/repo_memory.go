package cvs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores CVs in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]CV
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]CV)}
}

// Create stores the CV, assigning an ID if absent.
func (r *MemoryRepo) Create(ctx context.Context, cv CV) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = now
	}
	cv.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[cv.ID] = cv.Clone()
	return cv.ID, nil
}

// GetByID returns a CV scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, cvID string) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cv, ok := r.byID[cvID]
	if !ok || cv.UserID != userID || cv.DeletedAt != nil {
		return CV{}, ErrNotFound
	}
	return cv.Clone(), nil
}

// Save overwrites an existing CV.
func (r *MemoryRepo) Save(ctx context.Context, cv CV) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[cv.ID]
	if !ok || existing.UserID != cv.UserID {
		return ErrNotFound
	}
	cv.UpdatedAt = time.Now().UTC()
	r.byID[cv.ID] = cv.Clone()
	return nil
}

// GetMaster returns the oldest non-deleted untailored CV for the user.
func (r *MemoryRepo) GetMaster(ctx context.Context, userID string) (CV, error) {
	if err := ctx.Err(); err != nil {
		return CV{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var master *CV
	for id := range r.byID {
		cv := r.byID[id]
		if cv.UserID != userID || cv.DeletedAt != nil || cv.Tailored != nil {
			continue
		}
		if master == nil || cv.CreatedAt.Before(master.CreatedAt) {
			copied := cv
			master = &copied
		}
	}
	if master == nil {
		return CV{}, ErrNotFound
	}
	return master.Clone(), nil
}

var _ Repo = (*MemoryRepo)(nil)
