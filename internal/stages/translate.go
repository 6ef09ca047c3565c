package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Languages the translate stage accepts. "none" is a no-op fast path.
var supportedLanguages = map[string]string{
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"pt": "Portuguese",
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
}

type translatedCV struct {
	Title      string              `json:"title"`
	Basics     map[string]string   `json:"basics"`
	Skills     []translatedSkill   `json:"skills"`
	Experience []experienceRewrite `json:"experience"`
}

type translatedSkill struct {
	Name string `json:"name"`
}

// translateCV rewrites every human-readable text field of the CV in the
// target language. Not part of the default pipeline; it shares the worker
// contract so it rides the same retry coordinator.
func (w *Workers) translateCV(ctx context.Context, p Payload) (Result, error) {
	target := strings.ToLower(strings.TrimSpace(p.TargetLanguage))
	if target == "" || target == "none" {
		return OK(0), nil
	}
	language, ok := supportedLanguages[target]
	if !ok {
		return Fail(false, fmt.Sprintf("unsupported language: %s", p.TargetLanguage)), nil
	}

	cv, err := w.CVs.GetByID(ctx, p.UserID, p.CVID)
	if err != nil {
		return Result{}, fmt.Errorf("cv lookup id=%s: %w", p.CVID, err)
	}

	cvJSON, err := json.Marshal(cv)
	if err != nil {
		return Result{}, err
	}

	gen, failed, ok := w.generate(ctx, translatePrompt(language, string(cvJSON)))
	if !ok {
		return failed, nil
	}

	payload, found := ExtractJSON(gen.Text)
	if !found {
		return Fail(false, "invalid AI output: no JSON object in reply"), nil
	}
	var translated translatedCV
	if err := json.Unmarshal([]byte(payload), &translated); err != nil {
		return Fail(false, "invalid AI output: "+err.Error()), nil
	}
	if len(translated.Experience) != len(cv.Experience) {
		return Fail(false, fmt.Sprintf("invalid AI output: expected %d experience entries, got %d", len(cv.Experience), len(translated.Experience))), nil
	}

	if translated.Title != "" {
		cv.Title = translated.Title
	}
	if translated.Basics != nil {
		cv.Basics = translated.Basics
	}
	if len(translated.Skills) == len(cv.Skills) {
		for i, s := range translated.Skills {
			if s.Name != "" {
				cv.Skills[i].Name = s.Name
			}
		}
	}
	for i, e := range translated.Experience {
		cv.Experience[i].Description = e.Description
		if e.Achievements != nil {
			cv.Experience[i].Achievements = e.Achievements
		}
	}

	if err := w.CVs.Save(ctx, cv); err != nil {
		return Result{}, fmt.Errorf("save cv id=%s: %w", cv.ID, err)
	}
	return OK(gen.TokensUsed), nil
}
