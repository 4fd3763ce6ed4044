package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache keeps rendered report payloads in Redis so the dashboard does
// not re-run its aggregations on every poll. A nil *ReportCache is a no-op,
// which lets the server run without Redis configured.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *ReportCache {
	if addr == "" {
		return nil
	}
	return &ReportCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func (c *ReportCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// GetJSON loads a cached payload into dst. Returns false on miss or any
// Redis error; callers fall back to the database.
func (c *ReportCache) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	// A miss and Redis being down look the same to the caller.
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return true
}

func (c *ReportCache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, data, c.ttl)
}

// Invalidate drops cached report payloads after a write to orders.
func (c *ReportCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}

func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
