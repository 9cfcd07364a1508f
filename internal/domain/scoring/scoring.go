// Package scoring turns progress events into score changes for a track.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/classrank/internal/domain/model"
	"github.com/okian/classrank/internal/domain/tier"
)

// Default scoring configuration constants.
const (
	DefaultStarsPerDuel = 7
	DefaultStarCap      = 500
	// MaxQuizPoints bounds a single quiz event.
	MaxQuizPoints = 10_000
)

// NoCap marks a Delta without an upper bound.
const NoCap = -1

// Option applies a configuration option to the RuleScorer.
type Option func(*RuleScorer)

// WithStarsPerDuel sets how many stars a duel wins or loses.
func WithStarsPerDuel(n int) Option {
	return func(s *RuleScorer) {
		if n > 0 {
			s.starsPerDuel = n
		}
	}
}

// WithStarCap sets the highest PvP star count. Non-positive values remove the cap.
func WithStarCap(n int) Option {
	return func(s *RuleScorer) {
		if n > 0 {
			s.starCap = n
		} else {
			s.starCap = NoCap
		}
	}
}

// Delta is a change to one student's score on one track. Stores apply it
// by adding Amount and clamping the sum into [Floor, Cap].
type Delta struct {
	Track  tier.Track
	Amount int
	Floor  int
	// Cap is the inclusive upper bound, or NoCap.
	Cap int
}

// Apply returns current moved by the delta and clamped. The sum saturates
// at the int range instead of wrapping.
func (d Delta) Apply(current int) int {
	sum := current + d.Amount
	switch {
	case d.Amount > 0 && sum < current:
		sum = math.MaxInt
	case d.Amount < 0 && sum > current:
		sum = math.MinInt
	}
	next := max(d.Floor, sum)
	if d.Cap != NoCap {
		next = min(d.Cap, next)
	}
	return next
}

// Scorer computes a score change from an event.
type Scorer interface {
	// Score computes a delta, honoring ctx for cancellation.
	Score(ctx context.Context, ev model.ProgressEvent) (Delta, error)
}

// RuleScorer implements Scorer with the fixed quiz and duel rules.
type RuleScorer struct {
	starsPerDuel int
	starCap      int
}

// NewRuleScorer creates a new rule scorer with configuration options.
func NewRuleScorer(opts ...Option) *RuleScorer {
	s := &RuleScorer{
		starsPerDuel: DefaultStarsPerDuel,
		starCap:      DefaultStarCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StarCap returns the configured PvP cap, or NoCap.
func (s *RuleScorer) StarCap() int { return s.starCap }

// Score computes the delta for ev.
func (s *RuleScorer) Score(ctx context.Context, ev model.ProgressEvent) (Delta, error) {
	if err := ctx.Err(); err != nil {
		return Delta{}, fmt.Errorf("context cancelled: %w", err)
	}
	switch ev.Kind {
	case model.KindQuizCompleted:
		if ev.Points < 0 || ev.Points > MaxQuizPoints {
			return Delta{}, fmt.Errorf("%w: %d", ErrInvalidPoints, ev.Points)
		}
		return Delta{Track: tier.TrackWeekly, Amount: ev.Points, Cap: NoCap}, nil
	case model.KindDuelWon:
		return Delta{Track: tier.TrackPvP, Amount: s.starsPerDuel, Cap: s.starCap}, nil
	case model.KindDuelLost:
		return Delta{Track: tier.TrackPvP, Amount: -s.starsPerDuel, Cap: s.starCap}, nil
	default:
		return Delta{}, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
}
