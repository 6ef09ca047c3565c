package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cvtailor-backend/internal/ledger"
)

// Denial reasons surfaced to callers.
const (
	ReasonDailyLimit  = "Daily limit reached"
	ReasonWeeklyLimit = "Weekly limit reached"
)

// Service is the quota gate: it decides whether a user may start a tailoring
// run before any paid AI work is attempted.
type Service struct {
	Subs     SubscriptionStore
	Ledger   ledger.Repo
	FreePlan Plan
	Now      func() time.Time
}

// NewService constructs a Service with the default free plan.
func NewService(subs SubscriptionStore, ledgerRepo ledger.Repo) *Service {
	return &Service{
		Subs:     subs,
		Ledger:   ledgerRepo,
		FreePlan: DefaultFreePlan(),
		Now:      time.Now,
	}
}

// CanOperate checks the user's rate limits against their consumption history.
// A user with no subscription gets the free plan lazily on first check.
func (s *Service) CanOperate(ctx context.Context, userID string) (Decision, error) {
	if userID == "" {
		return Decision{}, errors.New("userID is required")
	}

	sub, err := s.resolveSubscription(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	now := s.now()

	if sub.DailyRateLimit != Unlimited {
		dayStart, dayEnd := dayWindow(now)
		used, err := s.Ledger.CountInRange(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return Decision{}, fmt.Errorf("count daily consumptions: %w", err)
		}
		if used >= sub.DailyRateLimit {
			return Decision{
				Allowed:           false,
				Reason:            ReasonDailyLimit,
				RetryAfterSeconds: secondsUntil(now, dayEnd),
			}, nil
		}
	}

	if sub.WeeklyRateLimit != Unlimited {
		weekStart, weekEnd := weekWindow(now)
		used, err := s.Ledger.CountInRange(ctx, userID, weekStart, weekEnd)
		if err != nil {
			return Decision{}, fmt.Errorf("count weekly consumptions: %w", err)
		}
		if used >= sub.WeeklyRateLimit {
			return Decision{
				Allowed:           false,
				Reason:            ReasonWeeklyLimit,
				RetryAfterSeconds: secondsUntil(now, weekEnd),
			}, nil
		}
	}

	return Decision{Allowed: true}, nil
}

// Status reports the user's current subscription and window usage.
type Status struct {
	PlanName        string `json:"planName"`
	DailyRateLimit  int    `json:"dailyRateLimit"`
	WeeklyRateLimit int    `json:"weeklyRateLimit"`
	UsedToday       int    `json:"usedToday"`
	UsedThisWeek    int    `json:"usedThisWeek"`
}

// GetStatus returns the user's plan and usage within the current windows.
func (s *Service) GetStatus(ctx context.Context, userID string) (Status, error) {
	sub, err := s.resolveSubscription(ctx, userID)
	if err != nil {
		return Status{}, err
	}
	now := s.now()
	dayStart, dayEnd := dayWindow(now)
	usedToday, err := s.Ledger.CountInRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return Status{}, err
	}
	weekStart, weekEnd := weekWindow(now)
	usedThisWeek, err := s.Ledger.CountInRange(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return Status{}, err
	}
	return Status{
		PlanName:        sub.PlanName,
		DailyRateLimit:  sub.DailyRateLimit,
		WeeklyRateLimit: sub.WeeklyRateLimit,
		UsedToday:       usedToday,
		UsedThisWeek:    usedThisWeek,
	}, nil
}

func (s *Service) resolveSubscription(ctx context.Context, userID string) (Subscription, error) {
	sub, err := s.Subs.GetActive(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, ErrNoActiveSubscription) {
		return Subscription{}, fmt.Errorf("resolve subscription: %w", err)
	}

	plan := s.FreePlan
	now := s.now()
	sub = Subscription{
		ID:              uuid.NewString(),
		UserID:          userID,
		PlanName:        plan.Name,
		DailyRateLimit:  plan.DailyRateLimit,
		WeeklyRateLimit: plan.WeeklyRateLimit,
		Status:          StatusActive,
		StartsAt:        now.Add(-time.Second),
		EndsAt:          now.AddDate(0, 0, plan.DurationDays),
	}
	created, err := s.Subs.Create(ctx, sub)
	if err != nil {
		return Subscription{}, fmt.Errorf("create free subscription: %w", err)
	}
	return created, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func secondsUntil(now, boundary time.Time) int {
	secs := int(boundary.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}
