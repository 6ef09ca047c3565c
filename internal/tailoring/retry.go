package tailoring

import (
	"context"
	"fmt"
	"time"

	"cvtailor-backend/internal/shared/metrics"
	"cvtailor-backend/internal/shared/telemetry"
	"cvtailor-backend/internal/stages"
)

// StageRunner executes one stage attempt.
type StageRunner interface {
	Run(ctx context.Context, stage stages.Stage, p stages.Payload) (stages.Result, error)
}

// RetryCoordinator reruns transiently failing stages with doubling delays.
// Non-retryable failures and hard errors surface immediately.
type RetryCoordinator struct {
	Runner      StageRunner
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// NewRetryCoordinator constructs a coordinator with the default attempt budget.
func NewRetryCoordinator(runner StageRunner) *RetryCoordinator {
	return &RetryCoordinator{
		Runner:      runner,
		MaxAttempts: 5,
		BaseDelay:   time.Second,
	}
}

// Run executes the stage until it succeeds, fails non-retryably, or the
// attempt budget is exhausted. The delay doubles after every failed attempt.
func (c *RetryCoordinator) Run(ctx context.Context, stage stages.Stage, p stages.Payload) (stages.Result, error) {
	delay := c.BaseDelay
	var last stages.Result
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		res, err := c.Runner.Run(ctx, stage, p)
		if err != nil {
			return stages.Result{}, err
		}
		if res.Success {
			return res, nil
		}
		if !res.Retryable {
			return res, &StageError{Stage: stage, Message: res.Message}
		}
		last = res

		if attempt == c.MaxAttempts {
			break
		}
		metrics.IncStageRetry()
		telemetry.Warn("tailoring.stage.retry", map[string]any{
			"stage":    string(stage),
			"attempt":  attempt,
			"delay_ms": delay.Milliseconds(),
			"error":    res.Message,
		})
		if err := c.sleep(ctx, delay); err != nil {
			return stages.Result{}, err
		}
		delay *= 2
	}
	return last, fmt.Errorf("stage %s: %w after %d attempts: %s", stage, ErrRetriesExhausted, c.MaxAttempts, last.Message)
}

func (c *RetryCoordinator) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
