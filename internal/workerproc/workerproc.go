package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"cvtailor-backend/internal/queue"
	"cvtailor-backend/internal/tailoring"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingRunID indicates a message missing the run id.
type ErrMissingRunID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingRunID) Error() string { return "missing run id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	RunID     string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process run"
	}
	return "process run: " + e.Err.Error()
}

// RunProcessor executes a queued tailoring run.
type RunProcessor interface {
	Execute(ctx context.Context, runID string) error
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.Decode(body)
	if errors.Is(err, queue.ErrMissingRunID) {
		return msg, meta, ErrMissingRunID{Meta: meta, RequestID: msg.RequestID}
	}
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor RunProcessor, body string) error {
	if processor == nil {
		return errors.New("tailoring service not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.RunID) == "" {
		return ErrMissingRunID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	ctxWithRequest := tailoring.WithRequestID(ctx, msg.RequestID)
	if err := processor.Execute(ctxWithRequest, msg.RunID); err != nil {
		return ErrProcess{RunID: msg.RunID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
