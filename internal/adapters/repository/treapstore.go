package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/okian/classrank/pkg/metrics"
)

// Treap-based, in-memory Store implementation. Each track owns one treap.
//
// Ordering: score DESC, then studentID ASC (deterministic). "less" means
// ranks earlier, so in-order traversal yields the board from best to worst.
// Every node keeps its subtree size, which gives O(log n) rank queries.

const (
	memoryBackend                = "memory"
	defaultMetricsUpdateInterval = 5 * time.Second
)

type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aID) appears before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score int) *node {
	if n == nil {
		return &node{id: id, score: score, prio: rand.Uint64(), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case score == n.score && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// countAbove returns how many nodes have a score strictly greater than score.
func countAbove(n *node, score int) int {
	c := 0
	for n != nil {
		if n.score > score {
			c += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

// collectTopN appends up to limit entries in board order.
func collectTopN(n *node, limit int, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, types.Entry{StudentID: n.id, Score: n.score})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// board is one track's leaderboard.
type board struct {
	root *node
	byID map[string]int
}

func newBoard() *board {
	return &board{byID: make(map[string]int)}
}

// TreapStore keeps every track in memory.
type TreapStore struct {
	mu                    sync.RWMutex
	boards                map[tier.Track]*board
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store and starts its metrics updater,
// which stops when ctx is done or Close is called.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		boards:                make(map[tier.Track]*board),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background goroutines.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// board returns the track's board, creating it when create is set.
// Callers must hold s.mu (write lock when create is set).
func (s *TreapStore) board(track tier.Track, create bool) *board {
	b, ok := s.boards[track]
	if !ok && create {
		b = newBoard()
		s.boards[track] = b
	}
	return b
}

// Apply implements Store.Apply in O(log n) expected time.
func (s *TreapStore) Apply(_ context.Context, studentID string, d scoring.Delta) (Update, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(memoryBackend, float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.board(d.Track, true)
	before, ok := b.byID[studentID]
	after := d.Apply(before)
	if ok {
		if after == before {
			return Update{StudentID: studentID, Before: before, After: after}, nil
		}
		b.root = deleteNode(b.root, studentID, before)
	}
	b.byID[studentID] = after
	b.root = insert(b.root, studentID, after)
	return Update{StudentID: studentID, Before: before, After: after, Created: !ok}, nil
}

// Rank returns the student's standing in O(log n).
func (s *TreapStore) Rank(_ context.Context, track tier.Track, studentID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(memoryBackend, float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.board(track, false)
	if b == nil {
		return types.Entry{}, ErrNotFound
	}
	score, ok := b.byID[studentID]
	if !ok {
		return types.Entry{}, ErrNotFound
	}
	return types.Entry{Rank: countAbove(b.root, score) + 1, StudentID: studentID, Score: score}, nil
}

// TopN returns the top n entries of the track.
func (s *TreapStore) TopN(_ context.Context, track tier.Track, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(memoryBackend, float64(time.Since(start).Microseconds())/1000)
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.board(track, false)
	if b == nil {
		return []types.Entry{}, nil
	}
	out := make([]types.Entry, 0, min(n, len(b.byID)))
	collectTopN(b.root, n, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of students on the track.
func (s *TreapStore) Count(_ context.Context, track tier.Track) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b := s.board(track, false); b != nil {
		return len(b.byID), nil
	}
	return 0, nil
}

// Reset drops the track's board.
func (s *TreapStore) Reset(_ context.Context, track tier.Track) error {
	s.mu.Lock()
	delete(s.boards, track)
	s.mu.Unlock()
	metrics.UpdateStudentsTotal(string(track), 0)
	return nil
}

func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	counts := make(map[tier.Track]int, len(s.boards))
	for track, b := range s.boards {
		counts[track] = len(b.byID)
	}
	s.mu.RUnlock()

	for track, n := range counts {
		metrics.UpdateStudentsTotal(string(track), n)
	}
}
