package queue

import "context"

// Client enqueues tailoring runs for asynchronous execution.
type Client interface {
	Enqueue(ctx context.Context, m Message) error
}
