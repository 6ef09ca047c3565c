package tailoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"cvtailor-backend/internal/stages"
)

// scriptedRunner replies from a fixed script, one entry per attempt.
type scriptedRunner struct {
	results []stages.Result
	errs    []error
	calls   int
}

func (r *scriptedRunner) Run(ctx context.Context, stage stages.Stage, p stages.Payload) (stages.Result, error) {
	i := r.calls
	r.calls++
	if i < len(r.errs) && r.errs[i] != nil {
		return stages.Result{}, r.errs[i]
	}
	if i < len(r.results) {
		return r.results[i], nil
	}
	return stages.OK(0), nil
}

func newTestCoordinator(runner StageRunner) (*RetryCoordinator, *[]time.Duration) {
	delays := &[]time.Duration{}
	c := NewRetryCoordinator(runner)
	c.Sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c, delays
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	runner := &scriptedRunner{results: []stages.Result{
		stages.Fail(true, "overloaded"),
		stages.Fail(true, "overloaded"),
		stages.OK(12),
	}}
	c, delays := newTestCoordinator(runner)

	res, err := c.Run(context.Background(), stages.StageSummarizeJob, stages.Payload{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success || res.TokensUsed != 12 {
		t.Fatalf("result = %+v", res)
	}
	if runner.calls != 3 {
		t.Fatalf("attempts = %d, want 3", runner.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("delays = %v, want %v", *delays, want)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Fatalf("delays = %v, want %v", *delays, want)
		}
	}
}

func TestRetryExhaustsAfterFiveAttempts(t *testing.T) {
	runner := &scriptedRunner{results: []stages.Result{
		stages.Fail(true, "rate limit"),
		stages.Fail(true, "rate limit"),
		stages.Fail(true, "rate limit"),
		stages.Fail(true, "rate limit"),
		stages.Fail(true, "rate limit"),
	}}
	c, delays := newTestCoordinator(runner)

	_, err := c.Run(context.Background(), stages.StageTailorSkills, stages.Payload{})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("err = %v, want ErrRetriesExhausted", err)
	}
	if runner.calls != 5 {
		t.Fatalf("attempts = %d, want exactly 5", runner.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("delays = %v, want %v", *delays, want)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Fatalf("delays = %v, want %v", *delays, want)
		}
	}
}

func TestRetryNonRetryableShortCircuits(t *testing.T) {
	runner := &scriptedRunner{results: []stages.Result{
		stages.Fail(false, "invalid AI output: empty skill list"),
	}}
	c, delays := newTestCoordinator(runner)

	_, err := c.Run(context.Background(), stages.StageTailorSkills, stages.Payload{})
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("err = %v, want *StageError", err)
	}
	if stageErr.Stage != stages.StageTailorSkills {
		t.Fatalf("stage = %q", stageErr.Stage)
	}
	if runner.calls != 1 || len(*delays) != 0 {
		t.Fatalf("non-retryable failure must not retry: calls=%d delays=%v", runner.calls, *delays)
	}
}

func TestRetryHardErrorSurfacesImmediately(t *testing.T) {
	boom := errors.New("cv lookup failed")
	runner := &scriptedRunner{errs: []error{boom}}
	c, _ := newTestCoordinator(runner)

	_, err := c.Run(context.Background(), stages.StageCoverLetter, stages.Payload{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped hard error", err)
	}
	if runner.calls != 1 {
		t.Fatalf("attempts = %d, want 1", runner.calls)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	runner := &scriptedRunner{results: []stages.Result{
		stages.Fail(true, "overloaded"),
	}}
	c := NewRetryCoordinator(runner)
	c.Sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	_, err := c.Run(context.Background(), stages.StageSummarizeJob, stages.Payload{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if runner.calls != 1 {
		t.Fatalf("attempts = %d, want 1", runner.calls)
	}
}
