package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MaekawaAo0604/muscle-SNS/pkg/config"
)

const unreadTTL = time.Hour

// RedisCache keeps per-conversation unread counters warm so match listings
// don't need a COUNT query per row. It is best effort; Postgres stays the
// source of truth and callers fall back to it on a miss.
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes the Redis client from config. Only Addr is
// mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{Addr: cfg.Redis.Addr}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func unreadKey(matchID, userID string) string {
	return fmt.Sprintf("unread:%s:%s", matchID, userID)
}

// IncrUnread bumps the recipient's unread counter for a match. The TTL is
// refreshed so hot conversations stay cached.
func (c *RedisCache) IncrUnread(ctx context.Context, matchID, userID string) error {
	key := unreadKey(matchID, userID)
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, unreadTTL).Err()
}

// ResetUnread zeroes the counter after a mark-read sweep.
func (c *RedisCache) ResetUnread(ctx context.Context, matchID, userID string) error {
	return c.Client.Set(ctx, unreadKey(matchID, userID), 0, unreadTTL).Err()
}

// GetUnread returns the cached counter. ok is false on a cache miss.
func (c *RedisCache) GetUnread(ctx context.Context, matchID, userID string) (count int64, ok bool, err error) {
	val, err := c.Client.Get(ctx, unreadKey(matchID, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetUnread primes the counter after a read-through from the database.
func (c *RedisCache) SetUnread(ctx context.Context, matchID, userID string, count int64) error {
	return c.Client.Set(ctx, unreadKey(matchID, userID), count, unreadTTL).Err()
}
