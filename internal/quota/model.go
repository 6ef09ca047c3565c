package quota

import "time"

// Unlimited is the sentinel rate limit meaning no cap.
const Unlimited = -1

// Subscription statuses.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Plan defines the rate limits a subscription is created with.
type Plan struct {
	Name            string `json:"name"`
	DailyRateLimit  int    `json:"dailyRateLimit"`
	WeeklyRateLimit int    `json:"weeklyRateLimit"`
	DurationDays    int    `json:"durationDays"`
}

// DefaultFreePlan returns the plan assigned lazily on a user's first check.
func DefaultFreePlan() Plan {
	return Plan{
		Name:            "free",
		DailyRateLimit:  3,
		WeeklyRateLimit: 10,
		DurationDays:    365,
	}
}

// Subscription is a user's entitlement window. A user has at most one active
// subscription at a time.
type Subscription struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	PlanName        string    `json:"planName"`
	DailyRateLimit  int       `json:"dailyRateLimit"`
	WeeklyRateLimit int       `json:"weeklyRateLimit"`
	Status          string    `json:"status"`
	StartsAt        time.Time `json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason,omitempty"`
	RetryAfterSeconds int    `json:"retryAfterSeconds,omitempty"`
}
