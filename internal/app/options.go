package service

import (
	"time"

	"github.com/okian/classrank/internal/adapters/repository"
	"github.com/okian/classrank/internal/config"
	"github.com/okian/classrank/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRedis keeps scores in Redis sorted sets instead of memory.
func WithRedis(url string) Option {
	return func(s *Service) {
		s.backend = config.StoreRedis
		s.redisURL = url
	}
}

// WithStore injects a ready store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.injected = true
		}
	}
}

// WithStarsPerDuel sets the stars won or lost per duel.
func WithStarsPerDuel(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.starsPerDuel = n
		}
	}
}

// WithStarCap sets the PvP star ceiling.
func WithStarCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.starCap = n
		}
	}
}

// WithSimilarityThreshold sets the ratio above which questions count as similar.
func WithSimilarityThreshold(th float64) Option {
	return func(s *Service) {
		if th > 0 && th <= 1 {
			s.similarityThreshold = th
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for the queue to drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// FromConfig translates a loaded configuration into service options.
func FromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.EventQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithStarsPerDuel(cfg.StarsPerDuel),
		WithStarCap(cfg.StarCap),
		WithSimilarityThreshold(cfg.SimilarityThreshold),
		WithShutdownTimeout(cfg.ShutdownTimeout()),
	}
	if cfg.Store == config.StoreRedis {
		opts = append(opts, WithRedis(cfg.RedisURL))
	}
	return opts
}
