package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/leaderboard"
)

// countingLoader serves a fixed population and counts loads.
type countingLoader struct {
	entries []domain.RankedEntry
	loads   int64
}

func (l *countingLoader) Ranked(_ context.Context, _ domain.Metric, _ domain.LeaderboardFilter) ([]domain.RankedEntry, error) {
	atomic.AddInt64(&l.loads, 1)
	return leaderboard.Rank(l.entries), nil
}

func newTestCache(t *testing.T, loader PopulationLoader) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewLeaderboardCache(client, loader, time.Minute), mr
}

func TestCacheFillsAndServesFromRedis(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{entries: []domain.RankedEntry{
		{UserID: "a", DisplayName: "Alice", MetricValue: 5200},
		{UserID: "b", DisplayName: "Bob", MetricValue: 5400},
	}}
	cache, mr := newTestCache(t, loader)

	first, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if len(first) != 2 || first[0].UserID != "b" || first[0].Rank != 1 {
		t.Fatalf("unexpected first read: %+v", first)
	}
	if !mr.Exists("leaderboard:qlo:global") {
		t.Fatalf("expected sorted set cached in redis")
	}

	second, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if atomic.LoadInt64(&loader.loads) != 1 {
		t.Fatalf("expected one loader round-trip, got %d", loader.loads)
	}
	if len(second) != 2 || second[0].UserID != "b" || second[1].DisplayName != "Alice" {
		t.Fatalf("unexpected cached read: %+v", second)
	}
}

func TestCacheExpiryFallsBackToLoader(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{entries: []domain.RankedEntry{
		{UserID: "a", DisplayName: "Alice", MetricValue: 5200},
	}}
	cache, mr := newTestCache(t, loader)

	if _, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{}); err != nil {
		t.Fatalf("first read: %v", err)
	}
	mr.FastForward(3 * time.Minute)

	if _, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{}); err != nil {
		t.Fatalf("read after expiry: %v", err)
	}
	if atomic.LoadInt64(&loader.loads) != 2 {
		t.Fatalf("expected loader hit after expiry, got %d loads", loader.loads)
	}
}

func TestCacheKeysSeparateFilters(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{entries: []domain.RankedEntry{
		{UserID: "a", MetricValue: 5200},
	}}
	cache, mr := newTestCache(t, loader)

	if _, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{Country: "NO"}); err != nil {
		t.Fatalf("filtered read: %v", err)
	}
	if !mr.Exists("leaderboard:qlo:country=NO") {
		t.Fatalf("expected filter-specific cache key")
	}
	if mr.Exists("leaderboard:qlo:global") {
		t.Fatalf("global board must not be touched by a filtered read")
	}
}

func TestEmptyPopulationNotCached(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{}
	cache, _ := newTestCache(t, loader)

	entries, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{})
	if err != nil {
		t.Fatalf("empty read: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty population, got %+v", entries)
	}
	if _, err := cache.Ranked(ctx, domain.MetricQLO, domain.LeaderboardFilter{}); err != nil {
		t.Fatalf("second empty read: %v", err)
	}
	if atomic.LoadInt64(&loader.loads) != 2 {
		t.Fatalf("empty boards should not be cached, got %d loads", loader.loads)
	}
}
