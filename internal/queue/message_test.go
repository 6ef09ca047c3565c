package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := NewMessage("run-1", "req-1")
	body, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.RunID != "run-1" || decoded.RequestID != "req-1" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded.Version != messageVersion {
		t.Fatalf("version = %d", decoded.Version)
	}
	if decoded.EnqueuedAt.IsZero() {
		t.Fatal("enqueuedAt not carried")
	}
}

func TestEncodeRequiresRunID(t *testing.T) {
	if _, err := Encode(Message{}); !errors.Is(err, ErrMissingRunID) {
		t.Fatalf("err = %v, want ErrMissingRunID", err)
	}
}

func TestDecodeFailures(t *testing.T) {
	if _, err := Decode("   "); err == nil {
		t.Fatal("expected error for blank body")
	}
	if _, err := Decode("{not json"); err == nil {
		t.Fatal("expected error for malformed body")
	}
	if _, err := Decode(`{"requestId":"req-1"}`); !errors.Is(err, ErrMissingRunID) {
		t.Fatalf("want ErrMissingRunID, got %v", err)
	}
}

func TestInProcessDispatchesToHandler(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	q := NewInProcess(func(ctx context.Context, m Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, m.RunID)
		return nil
	})

	if err := q.Enqueue(context.Background(), NewMessage("run-1", "")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue(context.Background(), NewMessage("run-2", "")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("handled = %v, want 2 messages", seen)
	}
}

func TestInProcessRejectsCancelledContext(t *testing.T) {
	q := NewInProcess(func(ctx context.Context, m Message) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Enqueue(ctx, NewMessage("run-1", "")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestInProcessHandlerOutlivesCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	q := NewInProcess(func(ctx context.Context, m Message) error {
		close(started)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Enqueue(ctx, NewMessage("run-1", "")); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	<-started
	cancel()

	// The handler runs on a detached context, so the caller's cancel must
	// not reach it.
	select {
	case release <- struct{}{}:
	case <-time.After(time.Second):
		t.Fatal("handler exited early")
	}
	q.Wait()
}
