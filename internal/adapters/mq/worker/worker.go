// Package worker scores queued events and applies them to the score store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/classrank/internal/adapters/mq/queue"
	"github.com/okian/classrank/internal/adapters/repository"
	"github.com/okian/classrank/internal/domain/model"
	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/pkg/logger"
	"github.com/okian/classrank/pkg/metrics"
)

const defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()

// Event is what workers read off the queue.
type Event = model.ProgressEvent

// Applier applies a score delta for a student.
type Applier interface {
	Apply(ctx context.Context, studentID string, d scoring.Delta) (repository.Update, error)
}

// Scorer computes a delta for an event.
type Scorer interface {
	Score(ctx context.Context, ev model.ProgressEvent) (scoring.Delta, error)
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events and writes score updates using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)
	// Shutdown stops the worker without draining.
	Shutdown(ctx context.Context) error
}

// Counters is shared by the workers of a pool.
type Counters struct {
	Processed   atomic.Int64
	Failed      atomic.Int64
	Promotions  atomic.Int64
	Demotions   atomic.Int64
	activeCount atomic.Int64
}

// InMemoryWorker implements Worker for processing events.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	applier  Applier
	name     string
	counters *Counters

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		applier:  applier,
		name:     "worker",
		counters: &Counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := w.processEvent(ctx, ev); err != nil {
				w.logger.Error(ctx, "error processing event", logger.String("event_id", ev.EventID), logger.Error(err))
			}
		}
	}
}

// Done is closed once Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// Shutdown stops the worker and waits for Run to return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) processEvent(ctx context.Context, ev queue.Event) error { //nolint:gocritic // hugeParam: value semantics for channel receive
	metrics.UpdateWorkerActiveCount(int(w.counters.activeCount.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.counters.activeCount.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	delta, err := w.scorer.Score(ctx, ev)
	if err != nil {
		w.fail("scoring_error")
		return fmt.Errorf("score event %s: %w", ev.EventID, err)
	}

	u, err := w.applier.Apply(ctx, ev.StudentID, delta)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		w.fail("store_error")
		return fmt.Errorf("apply event %s: %w", ev.EventID, err)
	}

	w.counters.Processed.Add(1)
	metrics.RecordEventProcessed(string(delta.Track))
	w.logger.Debug(ctx, "event applied",
		logger.String("event_id", ev.EventID),
		logger.String("student_id", ev.StudentID),
		logger.String("track", string(delta.Track)),
		logger.Int("before", u.Before),
		logger.Int("after", u.After),
	)
	w.reportTierChanges(ctx, delta.Track, u)
	return nil
}

// reportTierChanges logs and counts tier moves on every track that reads
// the updated score.
func (w *InMemoryWorker) reportTierChanges(ctx context.Context, source tier.Track, u repository.Update) {
	for _, track := range tier.Tracks() {
		if track.Source() != source {
			continue
		}
		change := tier.Compare(u.Before, u.After, track.Table())
		if change == tier.Unchanged {
			continue
		}
		switch change {
		case tier.Promoted:
			w.counters.Promotions.Add(1)
		case tier.Demoted:
			w.counters.Demotions.Add(1)
		}
		metrics.RecordTierChange(string(track), change.String())
		w.logger.Info(ctx, "tier changed",
			logger.String("student_id", u.StudentID),
			logger.String("track", string(track)),
			logger.String("change", change.String()),
			logger.String("from", track.Resolve(u.Before).Current.Name),
			logger.String("to", track.Resolve(u.After).Current.Name),
		)
	}
}

func (w *InMemoryWorker) fail(kind string) {
	w.counters.Failed.Add(1)
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	counters *Counters
	logger   logger.Logger
}

// NewPool creates a worker pool. A non-positive count picks a multiple of
// the CPU count.
func NewPool(workerCount int, q Queue, scorer Scorer, applier Applier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		counters: &Counters{},
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i)), withCounters(p.counters)}, opts...)
		p.workers[i] = NewInMemoryWorker(q, scorer, applier, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Counters returns the pool-wide counters.
func (p *Pool) Counters() *Counters { return p.counters }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and lets workers drain it. Workers still busy
// when ctx expires are stopped without draining.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker did not drain in time", logger.Int("worker_id", i))
			w.shutdownOnce.Do(func() { close(w.shutdown) })
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
	return nil
}
