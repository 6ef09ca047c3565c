package llm

import (
	"context"
	"fmt"
)

// Client abstracts generative-text providers.
type Client interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
}

// Generation is the result of a single provider call.
type Generation struct {
	Text       string
	TokensUsed int
}

// ProviderError carries the provider's HTTP-like status code and message so
// callers can classify failures without string-matching the whole chain.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return "provider error: " + e.Message
}

// StaticClient returns a fixed response; used in tests and local dev.
type StaticClient struct {
	Text   string
	Tokens int
	Err    error
}

// Generate returns the configured response.
func (s StaticClient) Generate(ctx context.Context, prompt string) (Generation, error) {
	_ = prompt
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}
	if s.Err != nil {
		return Generation{}, s.Err
	}
	return Generation{Text: s.Text, TokensUsed: s.Tokens}, nil
}

var _ Client = StaticClient{}
