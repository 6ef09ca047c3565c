package ledger

import "time"

// Consumption is one immutable usage record, written exactly once per
// completed tailoring run.
type Consumption struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	JobDescriptionID string    `json:"jobDescriptionId"`
	CVID             string    `json:"cvId"`
	Tokens           int       `json:"tokens"`
	CreatedAt        time.Time `json:"createdAt"`
}
