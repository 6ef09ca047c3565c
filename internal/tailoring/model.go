package tailoring

import (
	"errors"
	"fmt"
	"time"

	"cvtailor-backend/internal/stages"
)

// Run statuses.
const (
	StatusQueued    = "queued"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunOptions selects the optional stages of a run. Persisted with the run so
// workers pick them up without a second channel.
type RunOptions struct {
	CompanyName        string `json:"companyName,omitempty"`
	UseAITailoring     bool   `json:"useAITailoring"`
	IncludeCoverLetter bool   `json:"includeCoverLetter"`
	TranslateTo        string `json:"translateTo,omitempty"`
}

// Run is one tailoring job: the quota-gated fork of a master CV plus the AI
// stages that rewrite it. CVID is set once the snapshot exists.
type Run struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	JobDescriptionID string     `json:"jobDescriptionId"`
	CVID             string     `json:"cvId,omitempty"`
	Options          RunOptions `json:"options"`
	Status           string     `json:"status"`
	Progress         int        `json:"progress"`
	TokensUsed       int        `json:"tokensUsed"`
	Error            string     `json:"error,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// StartRequest describes a tailoring run to begin.
type StartRequest struct {
	UserID             string
	JobDescriptionID   string
	CompanyName        string
	UseAITailoring     bool
	IncludeCoverLetter bool
	TranslateTo        string
}

// QuotaError reports a denied quota check. Handlers map it to 429.
type QuotaError struct {
	Reason            string
	RetryAfterSeconds int
}

func (e *QuotaError) Error() string {
	return e.Reason
}

// StageError reports a stage that failed for a reason retrying cannot fix.
type StageError struct {
	Stage   stages.Stage
	Message string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Message)
}

// ErrRetriesExhausted marks a stage that kept failing transiently until the
// attempt budget ran out.
var ErrRetriesExhausted = errors.New("retries exhausted")
