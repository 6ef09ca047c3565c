package tailoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRunRepo implements RunRepo using Postgres.
type PGRunRepo struct {
	DB *sql.DB
}

// Create inserts a new run, assigning an ID if absent.
func (r *PGRunRepo) Create(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	options, err := json.Marshal(run.Options)
	if err != nil {
		return "", err
	}
	const query = `
INSERT INTO tailoring_runs (id, user_id, job_description_id, cv_id, options, status, progress, tokens_used, error_message, created_at, started_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.DB.ExecContext(ctx, query,
		run.ID, run.UserID, run.JobDescriptionID, nullString(run.CVID), options, run.Status,
		run.Progress, run.TokensUsed, nullString(run.Error), run.CreatedAt, run.StartedAt, run.CompletedAt)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// Get returns the run by id regardless of owner.
func (r *PGRunRepo) Get(ctx context.Context, runID string) (Run, error) {
	const query = selectRun + ` WHERE id = $1 LIMIT 1`
	return scanRun(r.DB.QueryRowContext(ctx, query, runID))
}

// GetForUser returns the run only if the user owns it.
func (r *PGRunRepo) GetForUser(ctx context.Context, userID, runID string) (Run, error) {
	const query = selectRun + ` WHERE id = $1 AND user_id = $2 LIMIT 1`
	return scanRun(r.DB.QueryRowContext(ctx, query, runID, userID))
}

// Save overwrites the mutable fields of an existing run.
func (r *PGRunRepo) Save(ctx context.Context, run Run) error {
	const query = `
UPDATE tailoring_runs
SET cv_id = $2, status = $3, progress = $4, tokens_used = $5, error_message = $6, started_at = $7, completed_at = $8
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		run.ID, nullString(run.CVID), run.Status, run.Progress, run.TokensUsed,
		nullString(run.Error), run.StartedAt, run.CompletedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRunNotFound
	}
	return nil
}

const selectRun = `
SELECT id, user_id, job_description_id, cv_id, options, status, progress, tokens_used, error_message, created_at, started_at, completed_at
FROM tailoring_runs`

func scanRun(row *sql.Row) (Run, error) {
	var run Run
	var cvID, errMsg sql.NullString
	var options []byte
	var startedAt, completedAt sql.NullTime
	err := row.Scan(&run.ID, &run.UserID, &run.JobDescriptionID, &cvID, &options, &run.Status,
		&run.Progress, &run.TokensUsed, &errMsg, &run.CreatedAt, &startedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &run.Options); err != nil {
			return Run{}, err
		}
	}
	run.CVID = cvID.String
	run.Error = errMsg.String
	if startedAt.Valid {
		t := startedAt.Time
		run.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ RunRepo = (*PGRunRepo)(nil)
