// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and CLASSRANK_* env vars over the defaults.
// - Errors wrap this package's sentinels.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard/{track}?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Store selects the score backend: memory or redis.
	Store string `koanf:"store"`
	// RedisURL is required when Store is redis.
	RedisURL string `koanf:"redis_url"`

	// StarsPerDuel is won or lost per PvP duel.
	StarsPerDuel int `koanf:"stars_per_duel"`
	// StarCap is the highest PvP star count.
	StarCap int `koanf:"star_cap"`

	// SimilarityThreshold flags questions whose word overlap is above it.
	SimilarityThreshold float64 `koanf:"similarity_threshold"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New returns a Config filled with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		EventQueueSize:      100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          500_000,
		MaxLeaderboardLimit: 100,
		Store:               StoreMemory,
		StarsPerDuel:        7,
		StarCap:             500,
		SimilarityThreshold: 0.7,
		ShutdownTimeoutMS:   10_000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate checks the values Load cannot coerce.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreMemory && c.Store != StoreRedis:
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrInvalidConfig, StoreMemory, StoreRedis, c.Store)
	case c.Store == StoreRedis && c.RedisURL == "":
		return fmt.Errorf("%w: redis_url is required when store is redis", ErrInvalidConfig)
	case c.StarsPerDuel <= 0:
		return fmt.Errorf("%w: stars_per_duel must be positive", ErrInvalidConfig)
	case c.StarCap <= 0:
		return fmt.Errorf("%w: star_cap must be positive", ErrInvalidConfig)
	case c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1:
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1]", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.EventQueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS < 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
