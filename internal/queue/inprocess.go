package queue

import (
	"context"
	"sync"

	"cvtailor-backend/internal/shared/telemetry"
)

// InProcess runs each enqueued message through the handler in its own
// goroutine. Single-binary deployments and tests use it instead of SQS.
type InProcess struct {
	handler func(ctx context.Context, m Message) error
	wg      sync.WaitGroup
}

// NewInProcess constructs an in-process dispatcher around the handler.
func NewInProcess(handler func(ctx context.Context, m Message) error) *InProcess {
	return &InProcess{handler: handler}
}

// Enqueue hands the message to the handler asynchronously. The handler runs
// detached from the caller's context so an HTTP request ending does not
// cancel the run.
func (q *InProcess) Enqueue(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := q.handler(context.Background(), m); err != nil {
			telemetry.Error("queue.inprocess.handler_failed", map[string]any{
				"run_id": m.RunID,
				"error":  err.Error(),
			})
		}
	}()
	return nil
}

// Wait blocks until all dispatched handlers have returned.
func (q *InProcess) Wait() {
	q.wg.Wait()
}

var _ Client = (*InProcess)(nil)
