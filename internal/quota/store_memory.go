package quota

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore stores subscriptions in memory and is safe for concurrent use.
// Creation is serialized under the mutex, so two concurrent first-requests
// for the same user still end up with a single active subscription.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]Subscription
	now    func() time.Time
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock constructs a MemoryStore with an injectable clock.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		byUser: make(map[string][]Subscription),
		now:    now,
	}
}

// GetActive returns the active subscription covering now, latest StartsAt first.
func (s *MemoryStore) GetActive(ctx context.Context, userID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked(userID)
}

func (s *MemoryStore) activeLocked(userID string) (Subscription, error) {
	now := s.now().UTC()
	var best *Subscription
	for i := range s.byUser[userID] {
		sub := s.byUser[userID][i]
		if sub.Status != StatusActive || !sub.StartsAt.Before(now) || !now.Before(sub.EndsAt) {
			continue
		}
		if best == nil || sub.StartsAt.After(best.StartsAt) {
			best = &sub
		}
	}
	if best == nil {
		return Subscription{}, ErrNoActiveSubscription
	}
	return *best, nil
}

// Create persists a new subscription unless the user already has an active one.
func (s *MemoryStore) Create(ctx context.Context, sub Subscription) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, err := s.activeLocked(sub.UserID); err == nil {
		return existing, nil
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	s.byUser[sub.UserID] = append(s.byUser[sub.UserID], sub)
	return sub, nil
}

var _ SubscriptionStore = (*MemoryStore)(nil)
