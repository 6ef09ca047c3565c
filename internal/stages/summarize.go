package stages

import (
	"context"
	"fmt"
)

// summarizeJob generates and memoizes the AI summary of a job description.
// Idempotent: a cached summary short-circuits without a provider call.
func (w *Workers) summarizeJob(ctx context.Context, p Payload) (Result, error) {
	jd, err := w.JDs.GetByID(ctx, p.UserID, p.JobDescriptionID)
	if err != nil {
		return Result{}, fmt.Errorf("job description lookup id=%s: %w", p.JobDescriptionID, err)
	}

	if jd.AISummary != "" {
		return OK(0), nil
	}

	gen, failed, ok := w.generate(ctx, summarizePrompt(jd.Content))
	if !ok {
		return failed, nil
	}

	jd.AISummary = gen.Text
	jd.SummaryTokens = gen.TokensUsed
	if err := w.JDs.Save(ctx, jd); err != nil {
		return Result{}, fmt.Errorf("save job summary id=%s: %w", jd.ID, err)
	}
	return OK(gen.TokensUsed), nil
}
