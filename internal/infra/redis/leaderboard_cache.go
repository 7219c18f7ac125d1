package redis

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"qlo-rating-service/internal/domain"
	"qlo-rating-service/internal/leaderboard"
)

// PopulationLoader is the uncached source of ranked populations (Postgres,
// in-memory, etc).
type PopulationLoader interface {
	Ranked(ctx context.Context, metric domain.Metric, filter domain.LeaderboardFilter) ([]domain.RankedEntry, error)
}

// LeaderboardCache keeps one sorted set per metric+filter in Redis and falls
// back to the loader on cache miss. Layout:
//
//	ZADD leaderboard:{metric}:{filter} {metricValue} {userID}
//	HSET leaderboard:{metric}:{filter}:names {userID} {displayName}
//
// Writes are best-effort; a failed cache fill only costs the next reader a
// loader round-trip. Cached boards tolerate eventual consistency by design:
// a rating update from a concurrently-finishing quiz may or may not show up
// until the TTL expires.
type LeaderboardCache struct {
	client *redis.Client
	loader PopulationLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLeaderboardCache(client *redis.Client, loader PopulationLoader, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *LeaderboardCache) Ranked(ctx context.Context, metric domain.Metric, filter domain.LeaderboardFilter) ([]domain.RankedEntry, error) {
	boardKey := c.boardKey(metric, filter)
	namesKey := boardKey + ":names"

	if cached, ok := c.readBoard(ctx, boardKey, namesKey); ok {
		return cached, nil
	}

	result, err, _ := c.sf.Do(boardKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if cached, ok := c.readBoard(ctx, boardKey, namesKey); ok {
			return cached, nil
		}

		entries, err := c.loader.Ranked(ctx, metric, filter)
		if err != nil {
			return nil, err
		}

		if len(entries) > 0 {
			members := make([]redis.Z, 0, len(entries))
			names := make([]interface{}, 0, len(entries)*2)
			for _, e := range entries {
				members = append(members, redis.Z{Score: float64(e.MetricValue), Member: e.UserID})
				names = append(names, e.UserID, e.DisplayName)
			}
			ttl := c.ttlWithJitter()
			pipe := c.client.Pipeline()
			pipe.Del(ctx, boardKey, namesKey)
			pipe.ZAdd(ctx, boardKey, members...)
			pipe.HSet(ctx, namesKey, names...)
			if ttl > 0 {
				pipe.Expire(ctx, boardKey, ttl)
				pipe.Expire(ctx, namesKey, ttl)
			}
			_, _ = pipe.Exec(ctx)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RankedEntry), nil
}

func (c *LeaderboardCache) readBoard(ctx context.Context, boardKey, namesKey string) ([]domain.RankedEntry, bool) {
	members, err := c.client.ZRevRangeWithScores(ctx, boardKey, 0, -1).Result()
	if err != nil || len(members) == 0 {
		return nil, false
	}
	names, _ := c.client.HGetAll(ctx, namesKey).Result()

	entries := make([]domain.RankedEntry, 0, len(members))
	for _, m := range members {
		userID, ok := m.Member.(string)
		if !ok {
			return nil, false
		}
		entries = append(entries, domain.RankedEntry{
			UserID:      userID,
			DisplayName: names[userID],
			MetricValue: int64(m.Score),
		})
	}
	// Re-rank so tie ordering and rank numbers match the uncached path.
	return leaderboard.Rank(entries), true
}

func (c *LeaderboardCache) boardKey(metric domain.Metric, filter domain.LeaderboardFilter) string {
	parts := []string{"leaderboard", string(metric)}
	if filter.GroupID != "" {
		parts = append(parts, "group="+filter.GroupID)
	}
	if filter.Country != "" {
		parts = append(parts, "country="+filter.Country)
	}
	if filter.County != "" {
		parts = append(parts, "county="+filter.County)
	}
	if filter.City != "" {
		parts = append(parts, "city="+filter.City)
	}
	if len(parts) == 2 {
		parts = append(parts, "global")
	}
	return strings.Join(parts, ":")
}

func (c *LeaderboardCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
