package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

var transientStatusCodes = map[int]bool{
	429: true,
	500: true,
	503: true,
}

// IsTransient reports whether a provider failure is worth retrying.
// Rate limiting, server errors, resource exhaustion, and flaky transport
// conditions are transient; everything else is treated as deterministic.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if transientStatusCodes[provErr.StatusCode] {
			return true
		}
		return hasTransientVocabulary(provErr.Message)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return hasTransientVocabulary(err.Error())
}

func hasTransientVocabulary(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range []string{
		"rate limit",
		"resource has been exhausted",
		"overloaded",
		"temporarily unavailable",
		"service unavailable",
		"connection reset",
		"connection refused",
		"connection closed",
		"broken pipe",
		"tls handshake timeout",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
