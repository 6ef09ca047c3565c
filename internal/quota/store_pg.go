package quota

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGStore implements SubscriptionStore using Postgres. A partial unique index
// on (user_id) WHERE status = 'active' makes duplicate free subscriptions
// impossible under concurrent first-requests.
type PGStore struct {
	DB *sql.DB
}

// GetActive returns the active subscription covering now, latest StartsAt first.
func (s *PGStore) GetActive(ctx context.Context, userID string) (Subscription, error) {
	const query = `
SELECT id, user_id, plan_name, daily_rate_limit, weekly_rate_limit, status, starts_at, ends_at
FROM subscriptions
WHERE user_id = $1 AND status = $2 AND starts_at < $3 AND ends_at > $3
ORDER BY starts_at DESC
LIMIT 1`
	var sub Subscription
	err := s.DB.QueryRowContext(ctx, query, userID, StatusActive, time.Now().UTC()).Scan(
		&sub.ID, &sub.UserID, &sub.PlanName, &sub.DailyRateLimit, &sub.WeeklyRateLimit,
		&sub.Status, &sub.StartsAt, &sub.EndsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrNoActiveSubscription
	}
	if err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// Create persists a new subscription unless the user already has an active one,
// in which case the existing one is returned.
func (s *PGStore) Create(ctx context.Context, sub Subscription) (Subscription, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	const query = `
INSERT INTO subscriptions (id, user_id, plan_name, daily_rate_limit, weekly_rate_limit, status, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.PlanName, sub.DailyRateLimit, sub.WeeklyRateLimit,
		sub.Status, sub.StartsAt, sub.EndsAt)
	if err != nil {
		return Subscription{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Subscription{}, err
	}
	if affected == 0 {
		// Lost the race; another request created it first.
		return s.GetActive(ctx, sub.UserID)
	}
	return sub, nil
}

var _ SubscriptionStore = (*PGStore)(nil)
