package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"cvtailor-backend/internal/cvs"
)

type skillScore struct {
	Name      string `json:"name"`
	Relevance int    `json:"relevance"`
}

// tailorSkills reorders the CV's skills by provider-assigned relevance,
// descending. Only the final ordering survives; scores are stripped before
// persisting.
func (w *Workers) tailorSkills(ctx context.Context, p Payload) (Result, error) {
	jd, err := w.JDs.GetByID(ctx, p.UserID, p.JobDescriptionID)
	if err != nil {
		return Result{}, fmt.Errorf("job description lookup id=%s: %w", p.JobDescriptionID, err)
	}
	cv, err := w.CVs.GetByID(ctx, p.UserID, p.CVID)
	if err != nil {
		return Result{}, fmt.Errorf("cv lookup id=%s: %w", p.CVID, err)
	}

	if len(cv.Skills) == 0 {
		return OK(0), nil
	}

	skillsJSON, err := json.Marshal(cv.Skills)
	if err != nil {
		return Result{}, err
	}

	gen, failed, ok := w.generate(ctx, skillsPrompt(jobContext(jd), string(skillsJSON)))
	if !ok {
		return failed, nil
	}

	payload, found := ExtractJSON(gen.Text)
	if !found {
		return Fail(false, "invalid AI output: no JSON array in reply"), nil
	}
	var scored []skillScore
	if err := json.Unmarshal([]byte(payload), &scored); err != nil {
		return Fail(false, "invalid AI output: "+err.Error()), nil
	}
	if len(scored) == 0 {
		return Fail(false, "invalid AI output: empty skill list"), nil
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})

	skills := make([]cvs.Skill, 0, len(scored))
	for _, s := range scored {
		if s.Name == "" {
			return Fail(false, "invalid AI output: unnamed skill"), nil
		}
		skills = append(skills, cvs.Skill{Name: s.Name})
	}
	cv.Skills = skills

	if err := w.CVs.Save(ctx, cv); err != nil {
		return Result{}, fmt.Errorf("save cv id=%s: %w", cv.ID, err)
	}
	return OK(gen.TokensUsed), nil
}
