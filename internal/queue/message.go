package queue

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const messageVersion = 1

// ErrMissingRunID marks a structurally valid message without a run id.
var ErrMissingRunID = errors.New("message runId is required")

// Message is the wire form of a queued tailoring run. The body carries only
// the run id; workers load everything else from the store.
type Message struct {
	RunID      string    `json:"runId"`
	RequestID  string    `json:"requestId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	Version    int       `json:"version"`
}

// NewMessage builds a versioned message for the given run.
func NewMessage(runID, requestID string) Message {
	return Message{
		RunID:      runID,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC(),
		Version:    messageVersion,
	}
}

// Encode serializes the message to its JSON wire form.
func Encode(m Message) (string, error) {
	if m.RunID == "" {
		return "", ErrMissingRunID
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a wire-form message body.
func Decode(body string) (Message, error) {
	if strings.TrimSpace(body) == "" {
		return Message{}, errors.New("empty message body")
	}
	var m Message
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return Message{}, err
	}
	if m.RunID == "" {
		return m, ErrMissingRunID
	}
	return m, nil
}
