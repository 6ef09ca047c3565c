package cvs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres. Section data is stored as jsonb.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new CV, assigning an ID if absent.
func (r *PGRepo) Create(ctx context.Context, cv CV) (string, error) {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cv.CreatedAt.IsZero() {
		cv.CreatedAt = now
	}
	cv.UpdatedAt = now

	basics, skills, experience, tailored, err := marshalSections(cv)
	if err != nil {
		return "", err
	}

	const query = `
INSERT INTO cvs (id, user_id, title, basics, skills, experience, tailored, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		cv.ID, cv.UserID, cv.Title, basics, skills, experience, tailored, cv.CreatedAt, cv.UpdatedAt)
	if err != nil {
		return "", err
	}
	return cv.ID, nil
}

// GetByID returns a CV scoped to its owner, excluding soft-deleted rows.
func (r *PGRepo) GetByID(ctx context.Context, userID, cvID string) (CV, error) {
	const query = `
SELECT id, user_id, title, basics, skills, experience, tailored, created_at, updated_at
FROM cvs
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, cvID, userID))
}

// Save overwrites the section data of an existing CV.
func (r *PGRepo) Save(ctx context.Context, cv CV) error {
	basics, skills, experience, tailored, err := marshalSections(cv)
	if err != nil {
		return err
	}
	const query = `
UPDATE cvs
SET title = $3, basics = $4, skills = $5, experience = $6, tailored = $7, updated_at = $8
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query,
		cv.ID, cv.UserID, cv.Title, basics, skills, experience, tailored, time.Now().UTC())
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

// GetMaster returns the oldest non-deleted untailored CV for the user.
func (r *PGRepo) GetMaster(ctx context.Context, userID string) (CV, error) {
	const query = `
SELECT id, user_id, title, basics, skills, experience, tailored, created_at, updated_at
FROM cvs
WHERE user_id = $1 AND deleted_at IS NULL AND tailored IS NULL
ORDER BY created_at ASC
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) scanOne(row *sql.Row) (CV, error) {
	var cv CV
	var basics, skills, experience []byte
	var tailored sql.NullString
	err := row.Scan(&cv.ID, &cv.UserID, &cv.Title, &basics, &skills, &experience, &tailored, &cv.CreatedAt, &cv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return CV{}, ErrNotFound
	}
	if err != nil {
		return CV{}, err
	}
	if err := json.Unmarshal(basics, &cv.Basics); err != nil {
		return CV{}, err
	}
	if err := json.Unmarshal(skills, &cv.Skills); err != nil {
		return CV{}, err
	}
	if err := json.Unmarshal(experience, &cv.Experience); err != nil {
		return CV{}, err
	}
	if tailored.Valid && tailored.String != "" {
		var meta TailoredMeta
		if err := json.Unmarshal([]byte(tailored.String), &meta); err != nil {
			return CV{}, err
		}
		cv.Tailored = &meta
	}
	return cv, nil
}

func marshalSections(cv CV) (basics, skills, experience []byte, tailored any, err error) {
	if cv.Basics == nil {
		cv.Basics = map[string]string{}
	}
	if cv.Skills == nil {
		cv.Skills = []Skill{}
	}
	if cv.Experience == nil {
		cv.Experience = []ExperienceEntry{}
	}
	if basics, err = json.Marshal(cv.Basics); err != nil {
		return nil, nil, nil, nil, err
	}
	if skills, err = json.Marshal(cv.Skills); err != nil {
		return nil, nil, nil, nil, err
	}
	if experience, err = json.Marshal(cv.Experience); err != nil {
		return nil, nil, nil, nil, err
	}
	if cv.Tailored != nil {
		payload, merr := json.Marshal(cv.Tailored)
		if merr != nil {
			return nil, nil, nil, nil, merr
		}
		tailored = string(payload)
	}
	return basics, skills, experience, tailored, nil
}

var _ Repo = (*PGRepo)(nil)
