package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCacheRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	type entry struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	// Missing key reports not found without an error
	var got entry
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Set then get round-trips the value
	require.NoError(t, SetCache(ctx, rdb, "k", entry{Name: "fan", Count: 2}, time.Minute))
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry{Name: "fan", Count: 2}, got)

	// Delete removes the key
	require.NoError(t, DeleteCache(ctx, rdb, "k"))
	found, err = GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetCacheHonorsTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "k", "v", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	// Expired entries are gone
	mr.FastForward(time.Minute + time.Second)
	var got string
	found, err := GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCountInWindow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	// Consecutive hits count up
	for want := int64(1); want <= 3; want++ {
		n, err := CountInWindow(ctx, rdb, "hits", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	// The first hit attached the window expiry
	assert.Equal(t, time.Hour, mr.TTL("hits"))

	// After the window lapses the count starts over
	mr.FastForward(time.Hour + time.Second)
	n, err := CountInWindow(ctx, rdb, "hits", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
