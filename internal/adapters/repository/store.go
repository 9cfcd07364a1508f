// Package repository stores per-track scores and answers ranking queries.
package repository

import (
	"context"

	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
)

// Update reports a score change made by Store.Apply.
type Update struct {
	StudentID string
	Before    int
	After     int
	// Created is true when the student had no score on the track before.
	Created bool
}

// Store provides read/write access to the ranking state. Ranks use
// competition ranking: equal scores share a rank and the next distinct
// score skips the shared positions (1, 1, 3).
type Store interface {
	// Apply adds d to the student's score on d.Track and clamps the result.
	// Unknown students start from 0.
	Apply(ctx context.Context, studentID string, d scoring.Delta) (Update, error)

	// Rank returns the current rank and score for a student.
	// Returns ErrNotFound if the student has no score on the track.
	Rank(ctx context.Context, track tier.Track, studentID string) (types.Entry, error)

	// TopN returns the top-N entries ordered by score desc, then student id asc.
	TopN(ctx context.Context, track tier.Track, n int) ([]types.Entry, error)

	// Count returns the number of students with a score on the track.
	Count(ctx context.Context, track tier.Track) (int, error)

	// Reset drops every score on the track.
	Reset(ctx context.Context, track tier.Track) error

	Close() error
}

// assignRanks sets competition ranks on entries already in leaderboard
// order, starting from the top of the board.
func assignRanks(entries []types.Entry) {
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
