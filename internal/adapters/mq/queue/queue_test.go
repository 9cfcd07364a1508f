package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/classrank/internal/domain/model"
)

func event(id string) model.ProgressEvent {
	return model.ProgressEvent{EventID: id, StudentID: "s-" + id, Kind: model.KindQuizCompleted, Points: 10}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if q.Cap() != 2 {
		t.Errorf("expected capacity 2, got %d", q.Cap())
	}
	if !q.Enqueue(ctx, event("e1")) {
		t.Fatal("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.EventID != "e1" || got.Kind != model.KindQuizCompleted {
		t.Errorf("unexpected event %+v", got)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, event("e1")) || !q.Enqueue(ctx, event("e2")) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, event("e3")) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if q.Enqueue(ctx, event("e1")) {
		t.Error("expected enqueue with cancelled context to fail")
	}
}

func TestInMemoryQueue_CloseDrains(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()
	for i := range 3 {
		q.Enqueue(ctx, event(fmt.Sprint(i)))
	}
	if err := q.Close(); err != nil {
		t.Fatal(err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, event("late")) {
		t.Error("expected enqueue after close to fail")
	}

	n := 0
	for range q.Dequeue(ctx) {
		n++
	}
	if n != 3 {
		t.Errorf("drained %d events, want 3", n)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const producers, perProducer = 10, 100
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range perProducer {
				for !q.Enqueue(ctx, event(fmt.Sprintf("%d-%d", p, j))) {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}

	seen := map[string]bool{}
	out := q.Dequeue(ctx)
	for len(seen) < producers*perProducer {
		select {
		case e := <-out:
			if seen[e.EventID] {
				t.Fatalf("event %s delivered twice", e.EventID)
			}
			seen[e.EventID] = true
		case <-ctx.Done():
			t.Fatalf("timed out after %d events", len(seen))
		}
	}
	wg.Wait()
}
