package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/classrank/internal/domain/scoring"
	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/domain/types"
	"github.com/okian/classrank/internal/platform/cache"
	"github.com/okian/classrank/pkg/metrics"
)

const (
	redisBackend     = "redis"
	defaultKeyPrefix = "classrank:board"
)

// applyScript adds a delta to a member's score and clamps it in one round
// trip. KEYS[1] is the board, ARGV is member, amount, floor, cap (-1 = none).
// It returns {before, after, created}.
var applyScript = redis.NewScript(`
local cur = redis.call('ZSCORE', KEYS[1], ARGV[1])
local created = 0
if cur then
  cur = tonumber(cur)
else
  cur = 0
  created = 1
end
local nxt = cur + tonumber(ARGV[2])
local floor = tonumber(ARGV[3])
if nxt < floor then nxt = floor end
local cap = tonumber(ARGV[4])
if cap >= 0 and nxt > cap then nxt = cap end
redis.call('ZADD', KEYS[1], nxt, ARGV[1])
return {cur, nxt, created}
`)

// RedisStore keeps each track in a Redis sorted set, so several service
// instances can share one leaderboard.
type RedisStore struct {
	cache  *cache.Cache
	prefix string
}

// NewRedisStore builds a store on an open cache connection. The store owns
// the connection and closes it on Close.
func NewRedisStore(c *cache.Cache, opts ...RedisOption) *RedisStore {
	s := &RedisStore{cache: c, prefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(track tier.Track) string {
	return s.prefix + ":" + string(track)
}

func observe(start time.Time, record func(string, float64)) {
	record(redisBackend, float64(time.Since(start).Microseconds())/1000)
}

// Apply implements Store.Apply atomically on the server.
func (s *RedisStore) Apply(ctx context.Context, studentID string, d scoring.Delta) (Update, error) {
	defer observe(time.Now(), metrics.RecordRepositoryUpdateLatency)

	res, err := applyScript.Run(ctx, s.cache.Client, []string{s.key(d.Track)},
		studentID, d.Amount, d.Floor, d.Cap).Int64Slice()
	if err != nil {
		return Update{}, fmt.Errorf("apply score: %w", err)
	}
	if len(res) != 3 {
		return Update{}, fmt.Errorf("apply score: unexpected reply %v", res)
	}
	return Update{
		StudentID: studentID,
		Before:    int(res[0]),
		After:     int(res[1]),
		Created:   res[2] == 1,
	}, nil
}

// Rank counts the members with a strictly greater score.
func (s *RedisStore) Rank(ctx context.Context, track tier.Track, studentID string) (types.Entry, error) {
	defer observe(time.Now(), metrics.RecordRepositoryQueryLatency)

	key := s.key(track)
	score, err := s.cache.Client.ZScore(ctx, key, studentID).Result()
	if errors.Is(err, redis.Nil) {
		return types.Entry{}, ErrNotFound
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("read score: %w", err)
	}
	above, err := s.cache.Client.ZCount(ctx, key, "("+strconv.FormatInt(int64(score), 10), "+inf").Result()
	if err != nil {
		return types.Entry{}, fmt.Errorf("count higher scores: %w", err)
	}
	return types.Entry{Rank: int(above) + 1, StudentID: studentID, Score: int(score)}, nil
}

// TopN reads the first n members. Redis orders equal scores by member
// descending, so the page is re-sorted to id ascending; a tie that straddles
// the page boundary may include a different member than the treap would.
func (s *RedisStore) TopN(ctx context.Context, track tier.Track, n int) ([]types.Entry, error) {
	defer observe(time.Now(), metrics.RecordRepositoryQueryLatency)

	if n < 1 {
		return nil, ErrInvalidLimit
	}
	zs, err := s.cache.Client.ZRevRangeWithScores(ctx, s.key(track), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	out := make([]types.Entry, 0, len(zs))
	for _, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, types.Entry{StudentID: id, Score: int(z.Score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].Score, out[i].StudentID, out[j].Score, out[j].StudentID)
	})
	assignRanks(out)
	return out, nil
}

// Count returns the cardinality of the track's set.
func (s *RedisStore) Count(ctx context.Context, track tier.Track) (int, error) {
	n, err := s.cache.Client.ZCard(ctx, s.key(track)).Result()
	if err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return int(n), nil
}

// Reset deletes the track's set.
func (s *RedisStore) Reset(ctx context.Context, track tier.Track) error {
	if err := s.cache.Client.Del(ctx, s.key(track)).Err(); err != nil {
		return fmt.Errorf("reset track: %w", err)
	}
	metrics.UpdateStudentsTotal(string(track), 0)
	return nil
}

// Close closes the underlying connection.
func (s *RedisStore) Close() error {
	return s.cache.Close()
}
