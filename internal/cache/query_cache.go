package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QueryCache stores JSON-encoded query results per entity.
//
// Keys: inventory:{entity}:gen holds the entity's generation counter, and results
// live under inventory:{entity}:{generation}:{sha1 of the filter JSON}. Bumping the
// generation orphans every cached result for the entity; orphans expire by TTL.
type QueryCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewQueryCache creates a new QueryCache.
func NewQueryCache(redis *RedisClient, ttl time.Duration) *QueryCache {
	return &QueryCache{redis: redis, ttl: ttl}
}

func genKey(entity string) string {
	return fmt.Sprintf("inventory:%s:gen", entity)
}

func resultKey(entity, generation string, filter any) (string, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to marshal filter: %w", err)
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("inventory:%s:%s:%s", entity, generation, hex.EncodeToString(sum[:])), nil
}

func (c *QueryCache) generation(ctx context.Context, entity string) (string, error) {
	gen, err := c.redis.Get(ctx, genKey(entity))
	if errors.Is(err, ErrMiss) {
		return "0", nil
	}
	return gen, err
}

// Get decodes the cached result for filter into dst. It reports false on a miss.
// The returned generation is the one the lookup ran under; pass it to Set so a
// result read before a concurrent Invalidate is filed under the old generation
// and never served afterwards.
func (c *QueryCache) Get(ctx context.Context, entity string, filter, dst any) (string, bool, error) {
	gen, err := c.generation(ctx, entity)
	if err != nil {
		return "", false, err
	}
	key, err := resultKey(entity, gen, filter)
	if err != nil {
		return gen, false, err
	}
	raw, err := c.redis.Get(ctx, key)
	if errors.Is(err, ErrMiss) {
		return gen, false, nil
	}
	if err != nil {
		return gen, false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return gen, false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return gen, true, nil
}

// Set caches result for filter under generation, as returned by Get.
func (c *QueryCache) Set(ctx context.Context, entity, generation string, filter, result any) error {
	key, err := resultKey(entity, generation, filter)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return c.redis.Set(ctx, key, string(raw), c.ttl)
}

// Invalidate drops every cached result for entity.
func (c *QueryCache) Invalidate(ctx context.Context, entity string) error {
	_, err := c.redis.Incr(ctx, genKey(entity))
	return err
}
