package loadgen

import (
	"errors"
	"fmt"

	"github.com/okian/classrank/internal/domain/tier"
)

// ErrVerification marks standings that disagree with local expectations.
var ErrVerification = errors.New("verification failed")

// expectedWeekly sums quiz points per student. Weekly scores only grow, so
// the total does not depend on the order the service applied them in.
func expectedWeekly(accepted []Event) map[string]int {
	out := make(map[string]int)
	for _, ev := range accepted {
		if ev.Kind == kindQuizCompleted {
			out[ev.StudentID] += ev.Points
		}
	}
	return out
}

// verifyTrack checks ordering, competition ranks and tier annotations of a
// leaderboard page. weekly is nil for tracks that do not read weekly points.
func verifyTrack(track tier.Track, board []Standing, weekly map[string]int) error {
	var errs []error
	for i, s := range board {
		if s.Track != track {
			errs = append(errs, fmt.Errorf("%s #%d: track %q", track, i, s.Track))
		}
		if s.Score < 0 {
			errs = append(errs, fmt.Errorf("%s #%d: negative score %d", track, i, s.Score))
		}
		if i == 0 {
			if s.Rank != 1 {
				errs = append(errs, fmt.Errorf("%s #0: rank %d, want 1", track, s.Rank))
			}
		} else {
			prev := board[i-1]
			switch {
			case s.Score > prev.Score:
				errs = append(errs, fmt.Errorf("%s #%d: score %d above previous %d", track, i, s.Score, prev.Score))
			case s.Score == prev.Score && s.StudentID < prev.StudentID:
				errs = append(errs, fmt.Errorf("%s #%d: tie not ordered by student id", track, i))
			case s.Score == prev.Score && s.Rank != prev.Rank:
				errs = append(errs, fmt.Errorf("%s #%d: tied rank %d, want %d", track, i, s.Rank, prev.Rank))
			case s.Score < prev.Score && s.Rank != i+1:
				errs = append(errs, fmt.Errorf("%s #%d: rank %d, want %d", track, i, s.Rank, i+1))
			}
		}
		if err := verifyAnnotation(track, s); err != nil {
			errs = append(errs, err)
		}
		if weekly != nil {
			// Students from earlier runs are not in weekly.
			if want, ok := weekly[s.StudentID]; ok && s.Score != want {
				errs = append(errs, fmt.Errorf("%s %s: score %d, want %d", track, s.StudentID, s.Score, want))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}

// verifyAnnotation recomputes the tier locally and compares.
func verifyAnnotation(track tier.Track, s Standing) error {
	want := tier.Resolve(s.Score, track.Table())
	switch {
	case s.Current.ID != want.Current.ID:
		return fmt.Errorf("%s %s: tier %q, want %q", track, s.StudentID, s.Current.ID, want.Current.ID)
	case (s.Next == nil) != (want.Next == nil):
		return fmt.Errorf("%s %s: next tier presence mismatch", track, s.StudentID)
	case s.Next != nil && s.Next.ID != want.Next.ID:
		return fmt.Errorf("%s %s: next tier %q, want %q", track, s.StudentID, s.Next.ID, want.Next.ID)
	case s.ProgressPercent != want.ProgressPercent:
		return fmt.Errorf("%s %s: progress %d, want %d", track, s.StudentID, s.ProgressPercent, want.ProgressPercent)
	case s.AmountToNext != want.AmountToNext:
		return fmt.Errorf("%s %s: amount to next %d, want %d", track, s.StudentID, s.AmountToNext, want.AmountToNext)
	}
	return nil
}

// verifyStanding checks that the rank endpoint agrees with the leaderboard.
func verifyStanding(fromBoard, fromRank Standing) error {
	if fromBoard.Rank != fromRank.Rank || fromBoard.Score != fromRank.Score || fromBoard.Current.ID != fromRank.Current.ID {
		return fmt.Errorf("%w: %s: leaderboard says rank %d score %d, rank endpoint says rank %d score %d",
			ErrVerification, fromBoard.StudentID, fromBoard.Rank, fromBoard.Score, fromRank.Rank, fromRank.Score)
	}
	return nil
}
