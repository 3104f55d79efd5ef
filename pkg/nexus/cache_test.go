package nexus_test

import (
	"context"
	"testing"
	"time"

	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	key := nexus.CacheKey("https://nexus.test/v0/contexts")

	assert.Len(t, key, 64)
	assert.Equal(t, key, nexus.CacheKey("https://nexus.test/v0/contexts"))
	assert.NotEqual(t, key, nexus.CacheKey("https://nexus.test/v0/contexts?from=2"))
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := nexus.NewMemoryCache(10)
	ctx := context.Background()

	entry := &nexus.CacheEntry{
		Body:       []byte(`{"results":[]}`),
		StatusCode: 200,
		StoredAt:   time.Now(),
		ExpiresAt:  time.Now().Add(time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "key-1", entry))

	got, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Body, got.Body)
	assert.Equal(t, 200, got.StatusCode)
	assert.True(t, cache.Has(ctx, "key-1"))
}

func TestMemoryCache_Miss(t *testing.T) {
	t.Parallel()

	cache := nexus.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, nexus.ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache := nexus.NewMemoryCache(10)
	ctx := context.Background()

	entry := &nexus.CacheEntry{
		Body:      []byte("stale"),
		StoredAt:  time.Now().Add(-2 * time.Minute),
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	require.NoError(t, cache.Set(ctx, "key-1", entry))

	_, err := cache.Get(ctx, "key-1")
	assert.ErrorIs(t, err, nexus.ErrCacheMiss)
	assert.False(t, cache.Has(ctx, "key-1"))
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	t.Parallel()

	cache := nexus.NewMemoryCache(2)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, cache.Set(ctx, "old", &nexus.CacheEntry{StoredAt: time.Now().Add(-2 * time.Second), ExpiresAt: expiry}))
	require.NoError(t, cache.Set(ctx, "mid", &nexus.CacheEntry{StoredAt: time.Now().Add(-time.Second), ExpiresAt: expiry}))
	require.NoError(t, cache.Set(ctx, "new", &nexus.CacheEntry{StoredAt: time.Now(), ExpiresAt: expiry}))

	assert.False(t, cache.Has(ctx, "old"))
	assert.True(t, cache.Has(ctx, "mid"))
	assert.True(t, cache.Has(ctx, "new"))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := nexus.NewMemoryCache(10)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, cache.Set(ctx, "a", &nexus.CacheEntry{ExpiresAt: expiry}))
	require.NoError(t, cache.Set(ctx, "b", &nexus.CacheEntry{ExpiresAt: expiry}))

	require.NoError(t, cache.Delete(ctx, "a"))
	assert.False(t, cache.Has(ctx, "a"))
	assert.True(t, cache.Has(ctx, "b"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "b"))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := nexus.NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &nexus.CacheEntry{Body: []byte("x")}))

	_, err := cache.Get(ctx, "key")
	assert.ErrorIs(t, err, nexus.ErrCacheMiss)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil config disables caching", func(t *testing.T) {
		t.Parallel()

		cache, err := nexus.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &nexus.NoOpCache{}, cache)
	})

	t.Run("none type disables caching", func(t *testing.T) {
		t.Parallel()

		cache, err := nexus.NewCacheFromConfig(&nexus.CacheConfig{Type: nexus.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &nexus.NoOpCache{}, cache)
	})

	t.Run("memory type", func(t *testing.T) {
		t.Parallel()

		cache, err := nexus.NewCacheFromConfig(&nexus.CacheConfig{
			Type:   nexus.CacheTypeMemory,
			Memory: &nexus.MemoryCacheConfig{MaxSize: 5},
		})
		require.NoError(t, err)
		assert.IsType(t, &nexus.MemoryCache{}, cache)
	})

	t.Run("nats without config", func(t *testing.T) {
		t.Parallel()

		_, err := nexus.NewCacheFromConfig(&nexus.CacheConfig{Type: nexus.CacheTypeNATS})
		assert.ErrorIs(t, err, nexus.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := nexus.NewCacheFromConfig(&nexus.CacheConfig{Type: "redis"})
		assert.ErrorIs(t, err, nexus.ErrUnsupportedCacheType)
	})
}
