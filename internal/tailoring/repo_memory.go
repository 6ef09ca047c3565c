package tailoring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRunRepo stores runs in memory and is safe for concurrent use.
type MemoryRunRepo struct {
	mu   sync.RWMutex
	byID map[string]Run
}

// NewMemoryRunRepo constructs a MemoryRunRepo.
func NewMemoryRunRepo() *MemoryRunRepo {
	return &MemoryRunRepo{byID: make(map[string]Run)}
}

// Create stores the run, assigning an ID if absent.
func (r *MemoryRunRepo) Create(ctx context.Context, run Run) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[run.ID] = run
	return run.ID, nil
}

// Get returns the run by id regardless of owner.
func (r *MemoryRunRepo) Get(ctx context.Context, runID string) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.byID[runID]
	if !ok {
		return Run{}, ErrRunNotFound
	}
	return run, nil
}

// GetForUser returns the run only if the user owns it.
func (r *MemoryRunRepo) GetForUser(ctx context.Context, userID, runID string) (Run, error) {
	run, err := r.Get(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	if run.UserID != userID {
		return Run{}, ErrRunNotFound
	}
	return run, nil
}

// Save overwrites an existing run.
func (r *MemoryRunRepo) Save(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[run.ID]; !ok {
		return ErrRunNotFound
	}
	r.byID[run.ID] = run
	return nil
}

var _ RunRepo = (*MemoryRunRepo)(nil)
