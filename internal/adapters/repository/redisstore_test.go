package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okian/classrank/internal/domain/tier"
	"github.com/okian/classrank/internal/platform/cache"
)

// redisURL returns the test server, skipping when none is configured.
func redisURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("CLASSRANK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CLASSRANK_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisStore(t *testing.T) Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := cache.New(ctx, redisURL(t))
	if err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	s := NewRedisStore(c, WithKeyPrefix("classrank-test:"+uuid.NewString()))
	t.Cleanup(func() {
		for _, tr := range tier.Tracks() {
			_ = s.Reset(context.Background(), tr)
		}
		_ = s.Close()
	})
	return s
}

func TestRedisStore_Contract(t *testing.T) {
	testStoreContract(t, newTestRedisStore)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	s := NewRedisStore(nil, WithKeyPrefix("p"))
	if got := s.key(tier.TrackPvP); got != "p:pvp" {
		t.Fatalf("key = %q", got)
	}
	if got := NewRedisStore(nil).key(tier.TrackWeekly); got != defaultKeyPrefix+":weekly" {
		t.Fatalf("default key = %q", got)
	}
}
