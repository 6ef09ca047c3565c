package jobdescriptions

import "time"

// JobDescription is user-submitted job posting text plus a memoized AI summary.
// AISummary is computed at most once; later tailoring runs reuse it.
type JobDescription struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	AISummary     string    `json:"aiSummary,omitempty"`
	SummaryTokens int       `json:"summaryTokens,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
