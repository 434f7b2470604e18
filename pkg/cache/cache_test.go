package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellflow/pkg/config"
)

func TestFromConfig(t *testing.T) {
	opts := FromConfig(&config.CacheConfig{
		Driver:     "redis",
		Host:       "redis.local",
		Port:       6380,
		Password:   "secret",
		DB:         2,
		DefaultTTL: 10 * time.Minute,
	})

	assert.Equal(t, BackendRedis, opts.Backend)
	assert.Equal(t, "redis.local:6380", opts.RedisAddr)
	assert.Equal(t, "secret", opts.RedisPassword)
	assert.Equal(t, 2, opts.RedisDB)
	assert.Equal(t, 10*time.Minute, opts.DefaultTTL)
	// незаданное берётся из DefaultOptions
	assert.Equal(t, 1000, opts.MaxEntries)
}

func TestNew_DefaultsToMemory(t *testing.T) {
	for _, backend := range []string{"", BackendMemory, "unknown"} {
		c, err := New(&Options{Backend: backend})
		require.NoError(t, err)
		_, ok := c.(*MemoryCache)
		assert.True(t, ok, "backend %q", backend)
		require.NoError(t, c.Close())
	}

	c, err := New(nil)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
}
