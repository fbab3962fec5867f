package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = time.Minute

// ViewCache keeps JSON renderings of read-mostly views in Redis.
// A nil *ViewCache, or one without a client, misses on every read.
type ViewCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewViewCache wraps rc. rc may be nil.
func NewViewCache(rc *redis.Client, prefix string, ttl time.Duration) *ViewCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ViewCache{rc: rc, prefix: prefix, ttl: ttl}
}

// Enabled reports whether reads can ever hit.
func (c *ViewCache) Enabled() bool {
	return c != nil && c.rc != nil
}

// GetJSON decodes the cached value for key into out.
func (c *ViewCache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Debugf("cache get failed key=%s err=%v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		Sugar.Warnf("cache decode failed key=%s err=%v", key, err)
		return false
	}
	return true
}

// SetJSON stores v under key. Failures are logged and otherwise ignored.
func (c *ViewCache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, c.prefix+key, b, c.ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Invalidate drops every key under the cache prefix using SCAN.
func (c *ViewCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // bounded rounds
		keys, next, err := c.rc.Scan(ctx, cursor, c.prefix+"*", 1000).Result()
		if err != nil {
			Sugar.Warnf("cache scan failed prefix=%s err=%v", c.prefix, err)
			return
		}
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
