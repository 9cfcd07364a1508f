// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/okian/classrank/internal/adapters/export"
	eventqueue "github.com/okian/classrank/internal/adapters/mq/queue"
	workerpool "github.com/okian/classrank/internal/adapters/mq/worker"
	"github.com/okian/classrank/internal/adapters/repository"
	"github.com/okian/classrank/internal/config"
	"github.com/okian/classrank/internal/domain/dedupe"
	"github.com/okian/classrank/internal/domain/model"
	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/okian/classrank/internal/platform/cache"
	"github.com/okian/classrank/pkg/logger"
	"github.com/okian/classrank/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	defaultQueueSize        = 100_000
	defaultDedupeSize       = 50_000
	defaultShutdownTimeout  = 10 * time.Second
	healthCheckTimeout      = 2 * time.Second
)

// Service implements the API dependencies for the ranking system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	injected bool // store came from WithStore and survives Stop
	// cache is owned by a Redis store; kept for health checks only.
	cache   *cache.Cache
	deduper dedupe.Deduper
	queue   *eventqueue.InMemoryQueue
	scorer  *scoring.RuleScorer
	pool    *workerpool.Pool

	// Configuration
	workerCount         int
	queueSize           int
	dedupeSize          int
	backend             string
	redisURL            string
	starsPerDuel        int
	starCap             int
	similarityThreshold float64
	shutdownTimeout     time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * defaultWorkerMultiplier,
		queueSize:           defaultQueueSize,
		dedupeSize:          defaultDedupeSize,
		backend:             config.StoreMemory,
		starsPerDuel:        scoring.DefaultStarsPerDuel,
		starCap:             scoring.DefaultStarCap,
		similarityThreshold: question.DefaultThreshold,
		shutdownTimeout:     defaultShutdownTimeout,
		logger:              logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting classrank service...")

	if err := s.openStore(ctx); err != nil {
		return err
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.scorer = scoring.NewRuleScorer(
		scoring.WithStarsPerDuel(s.starsPerDuel),
		scoring.WithStarCap(s.starCap),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.scorer, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "classrank service started",
		logger.String("store", s.backend),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) error {
	if s.injected {
		s.logger.Info(ctx, "using injected store")
		return nil
	}
	switch s.backend {
	case config.StoreMemory:
		s.store = repository.NewTreapStore(ctx)
		s.logger.Info(ctx, "using treap store")
	case config.StoreRedis:
		c, err := cache.New(ctx, s.redisURL)
		if err != nil {
			return fmt.Errorf("open redis store: %w", err)
		}
		s.cache = c
		s.store = repository.NewRedisStore(c)
		s.logger.Info(ctx, "using redis store")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, s.backend)
	}
	return nil
}

// Stop drains the queue within the shutdown timeout and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping classrank service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	// The Redis store closes its own client.
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}
	if !s.injected {
		s.store = nil
	}
	s.cache = nil

	s.started = false
	s.logger.Info(ctx, "classrank service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	if s.deduper == nil {
		return false
	}
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	if s.deduper == nil {
		return
	}
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an event for asynchronous scoring. It returns false when
// the queue is full or closed.
func (s *Service) Enqueue(ctx context.Context, ev model.ProgressEvent) bool { //nolint:gocritic // hugeParam: events are passed by value through the queue
	s.logger.Debug(ctx, "enqueueing event",
		logger.String("eventID", ev.EventID),
		logger.String("studentID", ev.StudentID),
		logger.String("kind", string(ev.Kind)),
		logger.Int("points", ev.Points),
	)
	if s.queue == nil {
		return false
	}
	return s.queue.Enqueue(ctx, ev)
}

// Leaderboard returns the top n students of track, each annotated with the
// tier their score resolves to on that track's table.
func (s *Service) Leaderboard(ctx context.Context, track tier.Track, n int) ([]types.Standing, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	entries, err := s.store.TopN(ctx, track.Source(), n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Standing, len(entries))
	for i, e := range entries {
		out[i] = types.Annotate(track, e)
	}
	metrics.RecordTierResolve(string(track))
	return out, nil
}

// Standing returns one student's rank and tier on track.
func (s *Service) Standing(ctx context.Context, track tier.Track, studentID string) (types.Standing, error) {
	if err := s.ready(); err != nil {
		return types.Standing{}, err
	}
	e, err := s.store.Rank(ctx, track.Source(), studentID)
	if err != nil {
		return types.Standing{}, err
	}
	metrics.RecordTierResolve(string(track))
	return types.Annotate(track, e), nil
}

// Resolve maps an arbitrary score onto track's table.
func (s *Service) Resolve(track tier.Track, score int) tier.Result {
	metrics.RecordTierResolve(string(track))
	return track.Resolve(score)
}

// Tiers returns the table track resolves against.
func (s *Service) Tiers(track tier.Track) tier.Table {
	return track.Table()
}

// ReviewQuestion scores a draft and lists similar questions from bank.
func (s *Service) ReviewQuestion(ctx context.Context, d question.Draft, bank []string) types.Review {
	r := types.ReviewDraft(d, bank, s.similarityThreshold)
	metrics.RecordQuestionReview(string(r.Grade))
	s.logger.Debug(ctx, "question reviewed",
		logger.Int("score", r.Score),
		logger.String("grade", string(r.Grade)),
		logger.Int("similar", len(r.Similar)),
	)
	return r
}

// ExportLeaderboard writes the top n of track as an xlsx workbook to w.
func (s *Service) ExportLeaderboard(ctx context.Context, w io.Writer, track tier.Track, n int) error {
	standings, err := s.Leaderboard(ctx, track, n)
	if err != nil {
		return err
	}
	if err := export.Leaderboard(w, track, standings); err != nil {
		return err
	}
	metrics.RecordExport()
	return nil
}

// ResetTrack drops every score on track, e.g. at the weekly rollover.
// Derived tracks cannot be reset.
func (s *Service) ResetTrack(ctx context.Context, track tier.Track) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !track.Writable() {
		return fmt.Errorf("%w: %s reads %s", ErrReadOnlyTrack, track, track.Source())
	}
	if err := s.store.Reset(ctx, track); err != nil {
		return err
	}
	metrics.RecordTrackReset(string(track))
	s.logger.Info(ctx, "track reset", logger.String("track", string(track)))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"store":       s.backend,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	queueLen := s.queue.Len(ctx)
	stats["queueLength"] = queueLen
	stats["dedupeEntries"] = s.deduper.Size()

	students := make(map[string]int)
	for _, track := range tier.Tracks() {
		if !track.Writable() {
			continue
		}
		n, err := s.store.Count(ctx, track)
		if err != nil {
			s.logger.Warn(ctx, "count failed", logger.String("track", string(track)), logger.Error(err))
			continue
		}
		students[string(track)] = n
	}
	stats["students"] = students

	c := s.pool.Counters()
	stats["processed"] = c.Processed.Load()
	stats["failed"] = c.Failed.Load()
	stats["promotions"] = c.Promotions.Load()
	stats["demotions"] = c.Demotions.Load()

	metrics.UpdateQueueSize(queueLen)
	return stats
}

// HealthCheck reports whether the service can serve requests: it must be
// started and, with the Redis store, Redis must answer a ping.
func (s *Service) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	if s.cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := s.cache.HealthCheck(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
