package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a new consumption record, assigning an ID if absent.
func (r *PGRepo) Append(ctx context.Context, c Consumption) (string, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	const query = `
INSERT INTO consumptions (id, user_id, job_description_id, cv_id, tokens, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.UserID, c.JobDescriptionID, c.CVID, c.Tokens, c.CreatedAt)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// CountInRange counts the user's records with from <= created_at < to.
func (r *PGRepo) CountInRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	const query = `
SELECT COUNT(*) FROM consumptions
WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

var _ Repo = (*PGRepo)(nil)
