package jobdescriptions

import (
	"context"
	"errors"
)

// ErrNotFound indicates a missing or unauthorized job description.
var ErrNotFound = errors.New("job description not found")

// Repo defines persistence operations for job descriptions.
type Repo interface {
	Create(ctx context.Context, jd JobDescription) (string, error)
	GetByID(ctx context.Context, userID, jdID string) (JobDescription, error)
	Save(ctx context.Context, jd JobDescription) error
}
