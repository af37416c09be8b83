package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/config"
)

type filter struct {
	Name *string `json:"name,omitempty"`
}

func newTestCache(t *testing.T) (*QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client, err := NewRedisClient(&config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewQueryCache(client, time.Minute), mr
}

func TestQueryCacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	name := "tea"

	var got []string
	gen, hit, err := c.Get(ctx, "products", filter{Name: &name}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "0", gen)

	require.NoError(t, c.Set(ctx, "products", gen, filter{Name: &name}, []string{"Green tea"}))

	_, hit, err = c.Get(ctx, "products", filter{Name: &name}, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Green tea"}, got)

	// A different filter is a different entry.
	_, hit, err = c.Get(ctx, "products", filter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestQueryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "employees", "0", filter{}, []int{1}))
	require.NoError(t, c.Set(ctx, "products", "0", filter{}, []int{2}))
	require.NoError(t, c.Invalidate(ctx, "employees"))

	var got []int
	gen, hit, err := c.Get(ctx, "employees", filter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "1", gen)

	_, hit, err = c.Get(ctx, "products", filter{}, &got)
	require.NoError(t, err)
	assert.True(t, hit, "other entities keep their entries")

	stored, err := mr.Get("inventory:employees:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", stored)
}

func TestQueryCacheResultReadBeforeInvalidateIsNotServed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	// A reader misses and goes to the store...
	var got []string
	gen, hit, err := c.Get(ctx, "employees", filter{}, &got)
	require.NoError(t, err)
	require.False(t, hit)

	// ...a writer commits and invalidates before the reader stores its rows.
	require.NoError(t, c.Invalidate(ctx, "employees"))
	require.NoError(t, c.Set(ctx, "employees", gen, filter{}, []string{"department=Sales"}))

	_, hit, err = c.Get(ctx, "employees", filter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit, "rows read before the write must not be served after it")
}

func TestQueryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "products", "0", filter{}, []int{1}))
	mr.FastForward(2 * time.Minute)

	var got []int
	_, hit, err := c.Get(ctx, "products", filter{}, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(l.Addr().String())
	require.NoError(t, l.Close())

	_, err = NewRedisClient(&config.RedisConfig{Host: host, Port: port})
	assert.ErrorContains(t, err, "redis connection failed")
}
