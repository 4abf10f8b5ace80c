package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plume/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const feedPagePrefix = "feed:all:"

// FeedPageKey returns the cache key for one page of the All-posts feed.
func FeedPageKey(page int) string {
	return fmt.Sprintf("%s%d", feedPagePrefix, page)
}

// FeedCache is a read-through, time-expired cache for the All-posts feed.
// Entries are never invalidated by writes; readers may observe data up to one
// TTL period stale. A nil FeedCache (or one built on a nil client) disables
// caching entirely, which is how tests run without Redis.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache builds a FeedCache over the given client and TTL.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Aside tries the cache first and on miss calls fetch, which must write into
// dest; the fetched value is then stored with the cache TTL (best effort).
func (c *FeedCache) Aside(ctx context.Context, key string, dest any, fetch func() error) error {
	if !c.enabled() {
		return fetch()
	}

	s, err := c.client.Get(ctx, key).Result()
	if err == nil {
		middleware.FeedCacheHits.WithLabelValues("hit").Inc()
		return json.Unmarshal([]byte(s), dest)
	}
	if err != redis.Nil {
		// Degraded cache should not fail reads.
		return fetch()
	}

	middleware.FeedCacheHits.WithLabelValues("miss").Inc()
	if err := fetch(); err != nil {
		return err
	}

	if b, marshalErr := json.Marshal(dest); marshalErr == nil {
		_ = c.client.Set(ctx, key, b, c.ttl).Err()
	}
	return nil
}

// Clear removes every cached feed page. This is the only way a cached page
// disappears before its TTL elapses.
func (c *FeedCache) Clear(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	iter := c.client.Scan(ctx, 0, feedPagePrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
