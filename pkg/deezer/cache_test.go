package deezer_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/deezer/pkg/deezer"
)

func liveEntry(data string) *deezer.CacheEntry {
	return &deezer.CacheEntry{
		Data:      []byte(data),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)
	ctx := context.Background()

	entry := &deezer.CacheEntry{
		Data:      []byte(`{"id":3135556}`),
		ExpiresAt: time.Now().Add(time.Hour),
		ETag:      "abc123",
	}

	err := cache.Set(ctx, "GET:/track/3135556", entry)
	require.NoError(t, err)

	retrieved, err := cache.Get(ctx, "GET:/track/3135556")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, retrieved.Data)
	assert.Equal(t, entry.ETag, retrieved.ETag)
	assert.True(t, cache.Has(ctx, "GET:/track/3135556"))
}

func TestMemoryCache_GetNonExistent(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "nonexistent")
	require.ErrorIs(t, err, deezer.ErrCacheKeyNotFound)
}

func TestMemoryCache_GetExpired(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", &deezer.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, cache.Has(ctx, "key1"))

	_, err = cache.Get(ctx, "key1")
	require.ErrorIs(t, err, deezer.ErrCacheEntryExpired)

	// The expired entry is dropped on read.
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key1", liveEntry("one")))
	require.NoError(t, cache.Set(ctx, "key2", liveEntry("two")))

	require.NoError(t, cache.Delete(ctx, "key1"))
	assert.False(t, cache.Has(ctx, "key1"))
	assert.True(t, cache.Has(ctx, "key2"))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_EvictsOldestInsertion(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(2)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "first", liveEntry("1")))
	require.NoError(t, cache.Set(ctx, "second", liveEntry("2")))

	// Overwriting an existing key never evicts.
	require.NoError(t, cache.Set(ctx, "first", liveEntry("1b")))
	assert.Equal(t, 2, cache.Len())

	require.NoError(t, cache.Set(ctx, "third", liveEntry("3")))

	assert.Equal(t, 2, cache.Len())
	assert.False(t, cache.Has(ctx, "second"))
	assert.True(t, cache.Has(ctx, "first"))
	assert.True(t, cache.Has(ctx, "third"))
}

func TestMemoryCache_RejectsOversizedValues(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)

	err := cache.Set(context.Background(), "big", &deezer.CacheEntry{
		Data: []byte(strings.Repeat("x", 2*1024*1024)),
	})
	require.ErrorIs(t, err, deezer.ErrCacheValueTooBig)
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(10)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "live", liveEntry("live")))
	require.NoError(t, cache.Set(ctx, "dead", &deezer.CacheEntry{
		Data:      []byte("dead"),
		ExpiresAt: time.Now().Add(-time.Second),
	}))

	cache.Cleanup()

	assert.Equal(t, 1, cache.Len())
	assert.True(t, cache.Has(ctx, "live"))
}

func TestMemoryCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache := deezer.NewMemoryCache(50)
	ctx := context.Background()

	var wg sync.WaitGroup

	for worker := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 100 {
				key := fmt.Sprintf("key-%d-%d", worker, i)
				_ = cache.Set(ctx, key, liveEntry(key))
				_, _ = cache.Get(ctx, key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 50)
}

func TestCacheEntry_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.False(t, (&deezer.CacheEntry{}).Expired(now), "zero expiry never expires")
	assert.False(t, (&deezer.CacheEntry{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.True(t, (&deezer.CacheEntry{ExpiresAt: now}).Expired(now))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := deezer.NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", liveEntry("data")))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, deezer.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
	require.NoError(t, cache.Delete(ctx, "key"))
	require.NoError(t, cache.Clear(ctx))
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := deezer.NewMemoryCache(10)
	l2 := deezer.NewMemoryCache(10)
	chain := deezer.NewCacheChain(l1, l2)

	t.Run("promotes lower level hits", func(t *testing.T) {
		require.NoError(t, l2.Set(ctx, "promoted", liveEntry("from l2")))

		entry, err := chain.Get(ctx, "promoted")
		require.NoError(t, err)
		assert.Equal(t, []byte("from l2"), entry.Data)
		assert.True(t, l1.Has(ctx, "promoted"))
	})

	t.Run("writes every level", func(t *testing.T) {
		require.NoError(t, chain.Set(ctx, "both", liveEntry("both")))

		assert.True(t, l1.Has(ctx, "both"))
		assert.True(t, l2.Has(ctx, "both"))
		assert.True(t, chain.Has(ctx, "both"))

		require.NoError(t, chain.Delete(ctx, "both"))
		assert.False(t, chain.Has(ctx, "both"))
	})

	t.Run("miss everywhere", func(t *testing.T) {
		_, err := chain.Get(ctx, "missing")
		require.ErrorIs(t, err, deezer.ErrKeyNotFoundInAnyCache)
	})
}

func TestCacheOptions_TTLFor(t *testing.T) {
	t.Parallel()

	options := &deezer.CacheOptions{
		DefaultTTL: time.Minute,
		PathTTLs: map[string]time.Duration{
			"/chart":     10 * time.Minute,
			"/chart/0/t": 20 * time.Minute,
		},
	}

	assert.Equal(t, time.Minute, options.TTLFor("/track/1"))
	assert.Equal(t, 10*time.Minute, options.TTLFor("/chart/132"))
	assert.Equal(t, 20*time.Minute, options.TTLFor("/chart/0/tracks"))
}

func TestCachingPolicy_ShouldCache(t *testing.T) {
	t.Parallel()

	policy := deezer.DefaultCachingPolicy()

	tests := []struct {
		name   string
		method string
		path   string
		status int
		want   bool
	}{
		{name: "catalog get", method: "GET", path: "/album/302127", status: 200, want: true},
		{name: "token owner", method: "GET", path: "/user/me", status: 200, want: false},
		{name: "options", method: "GET", path: "/options", status: 200, want: false},
		{name: "error status", method: "GET", path: "/track/1", status: 404, want: false},
		{name: "post", method: "POST", path: "/track/1", status: 200, want: false},
		{name: "delete", method: "DELETE", path: "/track/1", status: 200, want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, policy.ShouldCache(testCase.method, testCase.path, testCase.status))
		})
	}

	t.Run("include paths", func(t *testing.T) {
		t.Parallel()

		restricted := &deezer.CachingPolicy{CacheGET: true, IncludePaths: []string{"/genre"}}
		assert.True(t, restricted.ShouldCache("GET", "/genre/0", 200))
		assert.False(t, restricted.ShouldCache("GET", "/track/1", 200))
	})
}

func TestCacheManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := deezer.NewCacheManager(deezer.NewMemoryCache(10), nil)

	key := manager.KeyForQuery("GET", "/search", url.Values{"q": {"daft punk"}, "limit": {"10"}})
	assert.Equal(t, "GET:/search:limit=10&q=daft+punk", key)
	assert.Equal(t, "GET:/track/1", manager.GetCacheKey("GET", "/track/1", nil))

	_, err := manager.Get(ctx, key)
	require.Error(t, err)

	require.NoError(t, manager.Set(ctx, key, []byte("page"), time.Minute))

	data, err := manager.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("page"), data)

	require.NoError(t, manager.Delete(ctx, key))

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Deletes)
	assert.InDelta(t, 0.5, stats.GetHitRate(), 0.001)
}

func TestCacheManager_KeyIgnoresParameterOrder(t *testing.T) {
	t.Parallel()

	manager := deezer.NewCacheManager(nil, nil)

	first := manager.GetCacheKey("GET", "/search", map[string]string{"q": "a", "index": "25"})
	second := manager.GetCacheKey("GET", "/search", map[string]string{"index": "25", "q": "a"})

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, manager.GetCacheKey("GET", "/search", map[string]string{"q": "a", "index": "50"}))
}

func TestCacheManager_CountsSetErrors(t *testing.T) {
	t.Parallel()

	manager := deezer.NewCacheManager(deezer.NewMemoryCache(1), nil)

	err := manager.Set(context.Background(), "big", []byte(strings.Repeat("x", 2*1024*1024)), time.Minute)
	require.ErrorIs(t, err, deezer.ErrCacheValueTooBig)
	assert.Equal(t, int64(1), manager.GetStats().SetErrors)
}

func TestCacheStats_GetHitRateEmpty(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, (&deezer.CacheStats{}).GetHitRate(), 0.001)
}
