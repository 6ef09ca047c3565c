package stages

import (
	"context"
	"fmt"

	"cvtailor-backend/internal/cvs"
	"cvtailor-backend/internal/jobdescriptions"
	"cvtailor-backend/internal/llm"
)

// Payload carries the identifiers a stage needs. Stages look entities up by
// id and never hold long-lived references, so they can run on any worker.
type Payload struct {
	UserID           string `json:"userId"`
	CVID             string `json:"cvId"`
	JobDescriptionID string `json:"jobDescriptionId"`
	CompanyName      string `json:"companyName,omitempty"`
	TargetLanguage   string `json:"targetLanguage,omitempty"`
}

// Workers executes the individual AI-augmentation stages. Each stage does its
// own load-mutate-persist cycle against the stores.
type Workers struct {
	CVs cvs.Repo
	JDs jobdescriptions.Repo
	LLM llm.Client
}

// Run dispatches to the named stage. Expected AI failures come back as a
// failed Result; a non-nil error means missing or unauthorized data.
func (w *Workers) Run(ctx context.Context, stage Stage, p Payload) (Result, error) {
	switch stage {
	case StageSummarizeJob:
		return w.summarizeJob(ctx, p)
	case StageTailorExperience:
		return w.tailorExperience(ctx, p)
	case StageTailorSkills:
		return w.tailorSkills(ctx, p)
	case StageCoverLetter:
		return w.generateCoverLetter(ctx, p)
	case StageTranslate:
		return w.translateCV(ctx, p)
	default:
		return Result{}, fmt.Errorf("unknown stage %q", stage)
	}
}

// generate calls the provider and classifies failures into the Result
// vocabulary. The bool reports whether the call succeeded.
func (w *Workers) generate(ctx context.Context, prompt string) (llm.Generation, Result, bool) {
	gen, err := w.LLM.Generate(ctx, prompt)
	if err != nil {
		return llm.Generation{}, Fail(llm.IsTransient(err), err.Error()), false
	}
	return gen, Result{}, true
}

// jobContext prefers the memoized summary; raw content is the fallback when a
// caller runs a tailoring stage against a never-summarized job description.
func jobContext(jd jobdescriptions.JobDescription) string {
	if jd.AISummary != "" {
		return jd.AISummary
	}
	return jd.Content
}
