package ledger

import (
	"context"
	"time"
)

// Repo defines persistence operations for consumption records. Records are
// append-only; nothing updates or deletes them.
type Repo interface {
	Append(ctx context.Context, c Consumption) (string, error)
	// CountInRange counts a user's consumptions with from <= CreatedAt < to.
	CountInRange(ctx context.Context, userID string, from, to time.Time) (int, error)
}
