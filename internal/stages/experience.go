package stages

import (
	"context"
	"encoding/json"
	"fmt"
)

type experienceRewrite struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

// tailorExperience rewrites description and achievement text per entry while
// preserving entry identity and count. The model must not add or remove
// entries; a reply that does is invalid AI output.
func (w *Workers) tailorExperience(ctx context.Context, p Payload) (Result, error) {
	jd, err := w.JDs.GetByID(ctx, p.UserID, p.JobDescriptionID)
	if err != nil {
		return Result{}, fmt.Errorf("job description lookup id=%s: %w", p.JobDescriptionID, err)
	}
	cv, err := w.CVs.GetByID(ctx, p.UserID, p.CVID)
	if err != nil {
		return Result{}, fmt.Errorf("cv lookup id=%s: %w", p.CVID, err)
	}

	if len(cv.Experience) == 0 {
		return OK(0), nil
	}

	entriesJSON, err := json.Marshal(cv.Experience)
	if err != nil {
		return Result{}, err
	}

	gen, failed, ok := w.generate(ctx, experiencePrompt(jobContext(jd), string(entriesJSON)))
	if !ok {
		return failed, nil
	}

	payload, found := ExtractJSON(gen.Text)
	if !found {
		return Fail(false, "invalid AI output: no JSON array in reply"), nil
	}
	var rewrites []experienceRewrite
	if err := json.Unmarshal([]byte(payload), &rewrites); err != nil {
		return Fail(false, "invalid AI output: "+err.Error()), nil
	}
	if len(rewrites) != len(cv.Experience) {
		return Fail(false, fmt.Sprintf("invalid AI output: expected %d entries, got %d", len(cv.Experience), len(rewrites))), nil
	}

	byID := make(map[string]experienceRewrite, len(rewrites))
	for _, r := range rewrites {
		byID[r.ID] = r
	}
	for i := range cv.Experience {
		r, ok := byID[cv.Experience[i].ID]
		if !ok {
			return Fail(false, fmt.Sprintf("invalid AI output: missing entry id %s", cv.Experience[i].ID)), nil
		}
		cv.Experience[i].Description = r.Description
		if r.Achievements != nil {
			cv.Experience[i].Achievements = r.Achievements
		}
	}

	if err := w.CVs.Save(ctx, cv); err != nil {
		return Result{}, fmt.Errorf("save cv id=%s: %w", cv.ID, err)
	}
	return OK(gen.TokensUsed), nil
}
