package quota

import (
	"context"
	"errors"
)

// ErrNoActiveSubscription indicates the user has no subscription covering now.
var ErrNoActiveSubscription = errors.New("no active subscription")

// SubscriptionStore defines persistence operations for subscriptions.
type SubscriptionStore interface {
	// GetActive returns the subscription with status=active whose window
	// contains now. If more than one qualifies the latest StartsAt wins.
	GetActive(ctx context.Context, userID string) (Subscription, error)
	// Create persists a new subscription. Implementations must not create a
	// second active subscription for the same user; when one already exists
	// it is returned instead.
	Create(ctx context.Context, sub Subscription) (Subscription, error)
}
