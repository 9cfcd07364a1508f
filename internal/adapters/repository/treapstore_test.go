package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/okian/classrank/internal/domain/tier"
)

func TestTreapStore_Contract(t *testing.T) {
	testStoreContract(t, func(t *testing.T) Store {
		s := NewTreapStore(context.Background())
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestTreapStore_RankMatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	s := NewTreapStore(ctx)
	defer s.Close()

	rng := rand.New(rand.NewPCG(1, 2))
	scores := map[string]int{}
	for range 5000 {
		id := fmt.Sprintf("s-%03d", rng.IntN(300))
		amount := rng.IntN(21) - 5
		d := quiz(amount)
		u := mustApply(t, s, id, d)
		scores[id] = u.After
		if u.After != d.Apply(u.Before) {
			t.Fatalf("apply mismatch: %+v", u)
		}
	}

	type row struct {
		id    string
		score int
	}
	rows := make([]row, 0, len(scores))
	for id, sc := range scores {
		rows = append(rows, row{id, sc})
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i].score, rows[i].id, rows[j].score, rows[j].id) })

	top, err := s.TopN(ctx, tier.TrackWeekly, len(rows)+10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != len(rows) {
		t.Fatalf("TopN returned %d rows, want %d", len(top), len(rows))
	}
	for i, r := range rows {
		above := 0
		for _, o := range rows {
			if o.score > r.score {
				above++
			}
		}
		if top[i].StudentID != r.id || top[i].Score != r.score || top[i].Rank != above+1 {
			t.Fatalf("row %d = %+v, want %s/%d rank %d", i, top[i], r.id, r.score, above+1)
		}
		e, err := s.Rank(ctx, tier.TrackWeekly, r.id)
		if err != nil {
			t.Fatal(err)
		}
		if e.Rank != above+1 {
			t.Fatalf("Rank(%s) = %d, want %d", r.id, e.Rank, above+1)
		}
	}
}

func TestTreapStore_TreeSizesStayConsistent(t *testing.T) {
	s := NewTreapStore(context.Background())
	defer s.Close()

	for i := range 200 {
		mustApply(t, s, fmt.Sprintf("s-%d", i%50), quiz(i%7))
	}
	var check func(n *node) int
	check = func(n *node) int {
		if n == nil {
			return 0
		}
		got := 1 + check(n.left) + check(n.right)
		if n.size != got {
			t.Fatalf("node %s size %d, counted %d", n.id, n.size, got)
		}
		return got
	}
	if total := check(s.boards[tier.TrackWeekly].root); total != 50 {
		t.Fatalf("tree holds %d nodes, want 50", total)
	}
}

func TestTreapStore_CloseBehavior(t *testing.T) {
	s := NewTreapStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
	mustApply(t, s, "a", quiz(1))
	time.Sleep(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = s.Close()
		_ = s.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestTreapStore_ContextCancellationStopsUpdater(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewTreapStore(ctx, WithMetricsUpdateInterval(time.Millisecond))
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updater kept running after cancel")
	}
}
