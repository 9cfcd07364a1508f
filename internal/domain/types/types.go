// Package types contains common types used across the application
package types

import (
	"github.com/okian/classrank/internal/domain/question"
	"github.com/okian/classrank/internal/domain/tier"
)

// Entry represents a leaderboard entry
type Entry struct {
	Rank      int    `json:"rank"`
	StudentID string `json:"student_id"`
	Score     int    `json:"score"`
}

// Standing is an Entry annotated with the tier its score resolves to.
type Standing struct {
	Entry
	Track tier.Track `json:"track"`
	tier.Result
	Style tier.Style `json:"style"`
}

// Annotate resolves e against the track's table.
func Annotate(track tier.Track, e Entry) Standing {
	r := track.Resolve(e.Score)
	return Standing{Entry: e, Track: track, Result: r, Style: r.Current.Style()}
}

// Review is the advisory feedback for a question draft.
type Review struct {
	question.Assessment
	// Similar lists bank questions above the similarity threshold, best first.
	Similar []question.Match `json:"similar"`
}

// ReviewDraft grades d and lists the bank entries whose similarity to its
// text exceeds threshold. Similar is never nil.
func ReviewDraft(d question.Draft, bank []string, threshold float64) Review {
	similar := question.FindSimilar(d.Text, bank, threshold)
	if similar == nil {
		similar = []question.Match{}
	}
	return Review{Assessment: question.Quality(d), Similar: similar}
}
