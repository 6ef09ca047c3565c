package stages

// Stage identifies one AI-augmentation task.
type Stage string

// The pipeline stages. Translate shares the worker contract but is not part
// of the default pipeline.
const (
	StageSummarizeJob     Stage = "summarize_job"
	StageTailorExperience Stage = "tailor_experience"
	StageTailorSkills     Stage = "tailor_skills"
	StageCoverLetter      Stage = "cover_letter"
	StageTranslate        Stage = "translate"
)

// Result is the uniform return contract of every stage worker. Expected
// failure modes (provider rate limits, invalid AI output) are values, not
// errors, so the retry coordinator can distinguish them structurally.
type Result struct {
	Success    bool   `json:"success"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
	Message    string `json:"message,omitempty"`
}

// OK returns a success result with the given token usage.
func OK(tokens int) Result {
	return Result{Success: true, TokensUsed: tokens}
}

// Fail returns a failure result.
func Fail(retryable bool, message string) Result {
	return Result{Success: false, Retryable: retryable, Message: message}
}
