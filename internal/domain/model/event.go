// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/classrank/internal/domain/tier"
)

// Kind is the type of progress a student made.
type Kind string

const (
	// KindQuizCompleted awards the quiz's points on the weekly track.
	KindQuizCompleted Kind = "quiz_completed"
	// KindDuelWon awards stars on the PvP track.
	KindDuelWon Kind = "duel_won"
	// KindDuelLost takes stars away on the PvP track.
	KindDuelLost Kind = "duel_lost"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindQuizCompleted, KindDuelWon, KindDuelLost:
		return k, nil
	default:
		return "", fmt.Errorf("unknown event kind %q", s)
	}
}

// Track returns the ranking track the kind scores on.
func (k Kind) Track() tier.Track {
	if k == KindQuizCompleted {
		return tier.TrackWeekly
	}
	return tier.TrackPvP
}

// ProgressEvent is a single scored action reported by the LMS backend.
// Fields mirror the OpenAPI schema for /events.
type ProgressEvent struct {
	EventID   string    // unique id for idempotency
	StudentID string    // student identifier
	Kind      Kind      // what happened
	Points    int       // quiz points; ignored for duels
	TS        time.Time // when it happened
}
