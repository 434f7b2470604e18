package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisForTest(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}

	c, err := NewRedisCache(&Options{
		Backend:       BackendRedis,
		RedisAddr:     addr,
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		DefaultTTL:    time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := newRedisForTest(t)
	ctx := context.Background()

	key := BuildKey("wellflow-test", ShortHash([]byte(t.Name())))
	require.NoError(t, c.Set(ctx, key, []byte("value"), time.Minute))
	defer func() { _ = c.Delete(ctx, key) }()

	val, ttl, err := c.GetWithTTL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", string(val))
	assert.Greater(t, ttl, time.Duration(0))

	keys, err := c.Keys(ctx, "wellflow-test:*")
	require.NoError(t, err)
	assert.Contains(t, keys, key)
}

func TestRedisCache_NotFound(t *testing.T) {
	c := newRedisForTest(t)

	_, err := c.Get(context.Background(), "wellflow-test:missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(&Options{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}
