package jobdescriptions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores job descriptions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]JobDescription
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]JobDescription)}
}

// Create stores the job description, assigning an ID if absent.
func (r *MemoryRepo) Create(ctx context.Context, jd JobDescription) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if jd.ID == "" {
		jd.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if jd.CreatedAt.IsZero() {
		jd.CreatedAt = now
	}
	jd.UpdatedAt = now
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[jd.ID] = jd
	return jd.ID, nil
}

// GetByID returns a job description scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, jdID string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jd, ok := r.byID[jdID]
	if !ok || jd.UserID != userID {
		return JobDescription{}, ErrNotFound
	}
	return jd, nil
}

// Save overwrites an existing job description.
func (r *MemoryRepo) Save(ctx context.Context, jd JobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[jd.ID]
	if !ok || existing.UserID != jd.UserID {
		return ErrNotFound
	}
	jd.UpdatedAt = time.Now().UTC()
	r.byID[jd.ID] = jd
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
