package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"rate limited", &ProviderError{StatusCode: 429, Message: "too many requests"}, true},
		{"server error", &ProviderError{StatusCode: 500, Message: "internal"}, true},
		{"unavailable", &ProviderError{StatusCode: 503, Message: "down"}, true},
		{"bad request", &ProviderError{StatusCode: 400, Message: "bad prompt"}, false},
		{"unauthorized", &ProviderError{StatusCode: 401, Message: "bad key"}, false},
		{"overloaded message", errors.New("model is overloaded, try again"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"wrapped provider error", fmt.Errorf("generate: %w", &ProviderError{StatusCode: 429}), true},
		{"deterministic", errors.New("invalid request payload"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
