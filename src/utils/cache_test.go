package utils_test

import (
	"context"
	"testing"
	"time"

	"cryptotracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("should return the cached string value if valid", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("test value", 1*time.Minute)

		value, found := cache.Get()
		if !found || value != "test value" {
			t.Error("expected 'test value', got", value)
		}
	})

	t.Run("should return a zero value if the cache is expired", func(t *testing.T) {
		cache := utils.NewCache[string]()
		cache.Set("test value", 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)

		value, found := cache.Get()
		if found {
			t.Error("expected cache miss, got", value)
		}
	})

	t.Run("should miss before anything is set and after clear", func(t *testing.T) {
		cache := utils.NewCache[[]string]()
		_, found := cache.Get()
		assert.False(t, found)

		cache.Set([]string{"BTC"}, time.Minute)
		cache.Clear()
		_, found = cache.Get()
		assert.False(t, found)
	})

	t.Run("should return the cached struct value if valid", func(t *testing.T) {
		type User struct {
			Name  string
			Email string
		}
		cache := utils.NewCache[User]()
		user := User{Name: "John Doe", Email: "john@example.com"}
		cache.Set(user, 1*time.Minute)

		value, found := cache.Get()
		if !found || value.Name != "John Doe" {
			t.Errorf("expected 'John Doe', got %+v", value)
		}
	})
}

func TestMemoryCacheHandler(t *testing.T) {
	ctx := context.Background()
	handler := utils.NewMemoryCacheHandler()

	t.Run("round trips JSON values", func(t *testing.T) {
		type point struct {
			Price float64 `json:"price"`
		}
		require.NoError(t, handler.Set(ctx, "k", []point{{Price: 42000}}, time.Minute))

		var got []point
		require.NoError(t, handler.Get(ctx, "k", &got))
		assert.Equal(t, []point{{Price: 42000}}, got)
	})

	t.Run("reports a miss for unknown and expired keys", func(t *testing.T) {
		var got string
		assert.ErrorIs(t, handler.Get(ctx, "unknown", &got), utils.ErrCacheMiss)

		require.NoError(t, handler.Set(ctx, "short", "v", 5*time.Millisecond))
		time.Sleep(20 * time.Millisecond)
		assert.ErrorIs(t, handler.Get(ctx, "short", &got), utils.ErrCacheMiss)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, handler.Set(ctx, "gone", "v", 0))
		require.NoError(t, handler.Delete(ctx, "gone"))

		var got string
		assert.ErrorIs(t, handler.Get(ctx, "gone", &got), utils.ErrCacheMiss)
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, utils.CacheKey("price-snapshots", "BTC"), utils.CacheKey("price-snapshots", "BTC"))
	assert.NotEqual(t, utils.CacheKey("price-snapshots", "BTC"), utils.CacheKey("price-snapshots", "ETH"))
	assert.NotEqual(t, utils.CacheKey("ab", "c"), utils.CacheKey("a", "bc"))
}
