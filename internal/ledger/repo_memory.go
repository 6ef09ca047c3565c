package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores consumption records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]Consumption
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Consumption)}
}

// Append stores a new consumption record, assigning an ID if absent.
func (r *MemoryRepo) Append(ctx context.Context, c Consumption) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[c.UserID] = append(r.byUser[c.UserID], c)
	return c.ID, nil
}

// CountInRange counts the user's records with from <= CreatedAt < to.
func (r *MemoryRepo) CountInRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, c := range r.byUser[userID] {
		if !c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
