package stages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// generateCoverLetter writes a cover letter onto the tailored CV's metadata.
// Placeholder tokens left by the model are wrapped in inline code markers.
func (w *Workers) generateCoverLetter(ctx context.Context, p Payload) (Result, error) {
	jd, err := w.JDs.GetByID(ctx, p.UserID, p.JobDescriptionID)
	if err != nil {
		return Result{}, fmt.Errorf("job description lookup id=%s: %w", p.JobDescriptionID, err)
	}
	cv, err := w.CVs.GetByID(ctx, p.UserID, p.CVID)
	if err != nil {
		return Result{}, fmt.Errorf("cv lookup id=%s: %w", p.CVID, err)
	}
	if cv.Tailored == nil {
		return Result{}, errors.New("cover letter target is not a tailored cv")
	}

	cvJSON, err := json.Marshal(cv)
	if err != nil {
		return Result{}, err
	}

	companyName := p.CompanyName
	if companyName == "" {
		companyName = "the company"
	}

	gen, failed, ok := w.generate(ctx, coverLetterPrompt(jobContext(jd), companyName, string(cvJSON)))
	if !ok {
		return failed, nil
	}

	cv.Tailored.CoverLetter = WrapPlaceholders(gen.Text)
	if err := w.CVs.Save(ctx, cv); err != nil {
		return Result{}, fmt.Errorf("save cv id=%s: %w", cv.ID, err)
	}
	return OK(gen.TokensUsed), nil
}
