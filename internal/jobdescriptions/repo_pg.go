package jobdescriptions

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job description, assigning an ID if absent.
func (r *PGRepo) Create(ctx context.Context, jd JobDescription) (string, error) {
	if jd.ID == "" {
		jd.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if jd.CreatedAt.IsZero() {
		jd.CreatedAt = now
	}
	jd.UpdatedAt = now
	const query = `
INSERT INTO job_descriptions (id, user_id, title, content, ai_summary, summary_tokens, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		jd.ID, jd.UserID, jd.Title, jd.Content, jd.AISummary, jd.SummaryTokens, jd.CreatedAt, jd.UpdatedAt)
	if err != nil {
		return "", err
	}
	return jd.ID, nil
}

// GetByID returns a job description scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, jdID string) (JobDescription, error) {
	const query = `
SELECT id, user_id, title, content, ai_summary, summary_tokens, created_at, updated_at
FROM job_descriptions
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var jd JobDescription
	err := r.DB.QueryRowContext(ctx, query, jdID, userID).Scan(
		&jd.ID, &jd.UserID, &jd.Title, &jd.Content, &jd.AISummary, &jd.SummaryTokens, &jd.CreatedAt, &jd.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return JobDescription{}, ErrNotFound
	}
	if err != nil {
		return JobDescription{}, err
	}
	return jd, nil
}

// Save overwrites an existing job description.
func (r *PGRepo) Save(ctx context.Context, jd JobDescription) error {
	const query = `
UPDATE job_descriptions
SET title = $3, content = $4, ai_summary = $5, summary_tokens = $6, updated_at = $7
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		jd.ID, jd.UserID, jd.Title, jd.Content, jd.AISummary, jd.SummaryTokens, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
