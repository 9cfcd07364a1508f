package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
)

func quiz(points int) scoring.Delta {
	return scoring.Delta{Track: tier.TrackWeekly, Amount: points, Cap: scoring.NoCap}
}

func duel(stars int) scoring.Delta {
	return scoring.Delta{Track: tier.TrackPvP, Amount: stars, Cap: 500}
}

func mustApply(t *testing.T, s Store, id string, d scoring.Delta) Update {
	t.Helper()
	u, err := s.Apply(context.Background(), id, d)
	if err != nil {
		t.Fatalf("Apply(%s): %v", id, err)
	}
	return u
}

// testStoreContract runs the behavior every Store must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("apply accumulates and reports before/after", func(t *testing.T) {
		s := newStore(t)
		u := mustApply(t, s, "ana", quiz(40))
		if !u.Created || u.Before != 0 || u.After != 40 {
			t.Fatalf("first apply = %+v", u)
		}
		u = mustApply(t, s, "ana", quiz(120))
		if u.Created || u.Before != 40 || u.After != 160 {
			t.Fatalf("second apply = %+v", u)
		}
	})

	t.Run("pvp stars clamp after every step", func(t *testing.T) {
		s := newStore(t)
		if u := mustApply(t, s, "bo", duel(-7)); u.After != 0 {
			t.Fatalf("loss from zero = %d, want 0", u.After)
		}
		for range 80 {
			mustApply(t, s, "bo", duel(7))
		}
		e, err := s.Rank(ctx, tier.TrackPvP, "bo")
		if err != nil {
			t.Fatal(err)
		}
		if e.Score != 500 {
			t.Fatalf("score = %d, want cap 500", e.Score)
		}
	})

	t.Run("tracks are independent", func(t *testing.T) {
		s := newStore(t)
		mustApply(t, s, "cy", quiz(300))
		if _, err := s.Rank(ctx, tier.TrackPvP, "cy"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("pvp rank err = %v, want ErrNotFound", err)
		}
		if n, _ := s.Count(ctx, tier.TrackPvP); n != 0 {
			t.Fatalf("pvp count = %d", n)
		}
	})

	t.Run("competition ranking with id tie-break", func(t *testing.T) {
		s := newStore(t)
		mustApply(t, s, "dee", quiz(100))
		mustApply(t, s, "bea", quiz(300))
		mustApply(t, s, "ada", quiz(300))
		mustApply(t, s, "cal", quiz(200))

		got, err := s.TopN(ctx, tier.TrackWeekly, 10)
		if err != nil {
			t.Fatal(err)
		}
		want := []types.Entry{
			{Rank: 1, StudentID: "ada", Score: 300},
			{Rank: 1, StudentID: "bea", Score: 300},
			{Rank: 3, StudentID: "cal", Score: 200},
			{Rank: 4, StudentID: "dee", Score: 100},
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("TopN = %v, want %v", got, want)
		}
		for _, w := range want {
			e, err := s.Rank(ctx, tier.TrackWeekly, w.StudentID)
			if err != nil {
				t.Fatal(err)
			}
			if e != w {
				t.Fatalf("Rank(%s) = %+v, want %+v", w.StudentID, e, w)
			}
		}

		top, _ := s.TopN(ctx, tier.TrackWeekly, 2)
		if len(top) != 2 || top[1].StudentID != "bea" {
			t.Fatalf("TopN(2) = %v", top)
		}
	})

	t.Run("invalid limit and unknown student", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.TopN(ctx, tier.TrackWeekly, 0); !errors.Is(err, ErrInvalidLimit) {
			t.Fatalf("TopN(0) err = %v", err)
		}
		if _, err := s.Rank(ctx, tier.TrackWeekly, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Rank err = %v", err)
		}
		top, err := s.TopN(ctx, tier.TrackWeekly, 5)
		if err != nil || len(top) != 0 {
			t.Fatalf("empty TopN = %v, %v", top, err)
		}
	})

	t.Run("reset clears only one track", func(t *testing.T) {
		s := newStore(t)
		mustApply(t, s, "eve", quiz(50))
		mustApply(t, s, "eve", duel(7))
		if err := s.Reset(ctx, tier.TrackWeekly); err != nil {
			t.Fatal(err)
		}
		if n, _ := s.Count(ctx, tier.TrackWeekly); n != 0 {
			t.Fatalf("weekly count after reset = %d", n)
		}
		if n, _ := s.Count(ctx, tier.TrackPvP); n != 1 {
			t.Fatalf("pvp count after reset = %d", n)
		}
	})

	t.Run("concurrent applies are not lost", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 20 {
					if _, err := s.Apply(ctx, "fay", quiz(1)); err != nil {
						t.Error(err)
					}
				}
			}()
		}
		wg.Wait()
		e, err := s.Rank(ctx, tier.TrackWeekly, "fay")
		if err != nil {
			t.Fatal(err)
		}
		if e.Score != 200 {
			t.Fatalf("score = %d, want 200", e.Score)
		}
	})
}
