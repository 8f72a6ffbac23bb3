package listings

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores aggregator pages in Redis keyed by the full query. A nil
// Cache (or a Cache without a client) is a valid no-op: every Get misses and
// every Set is dropped, so the aggregator works unchanged without Redis.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps a Redis client. rdb may be nil.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached page for key, or (nil, false) on a miss. Redis
// errors count as misses.
func (c *Cache) Get(ctx context.Context, key string) (*Page, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("listing cache read failed", "key", key, "err", err)
		}
		return nil, false
	}

	var page Page
	if err := json.Unmarshal(raw, &page); err != nil {
		c.logger.Warn("listing cache entry corrupt — dropping", "key", key, "err", err)
		c.rdb.Del(ctx, key)
		return nil, false
	}
	return &page, true
}

// Set stores a page under key with the configured TTL. Failures are logged
// and swallowed: caching must never fail a request.
func (c *Cache) Set(ctx context.Context, key string, page *Page) {
	if c == nil || c.rdb == nil || page == nil {
		return
	}

	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("listing cache write failed", "key", key, "err", err)
	}
}
