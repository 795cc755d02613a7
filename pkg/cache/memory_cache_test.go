package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache().WithClock(func() time.Time { return now })

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", map[string]string{"status": "PAID"}, time.Second))
		var got map[string]string
		require.NoError(t, c.Get(ctx, "k", &got))
		assert.Equal(t, "PAID", got["status"])
	})

	t.Run("entries expire", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", 1, time.Second))
		now = now.Add(2 * time.Second)
		var got int
		assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)
		ok, err := c.Exists(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "forever", "x", 0))
		now = now.Add(24 * time.Hour)
		ok, _ := c.Exists(ctx, "forever")
		assert.True(t, ok)
	})

	t.Run("fixed window counter", func(t *testing.T) {
		n, err := c.IncrWithTTL(ctx, "rate:u1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		now = now.Add(30 * time.Second)
		n, _ = c.IncrWithTTL(ctx, "rate:u1", time.Minute)
		assert.Equal(t, int64(2), n)

		// window is anchored at the first increment
		now = now.Add(31 * time.Second)
		n, _ = c.IncrWithTTL(ctx, "rate:u1", time.Minute)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", 1, 0))
		require.NoError(t, c.Delete(ctx, "gone"))
		var got int
		assert.ErrorIs(t, c.Get(ctx, "gone", &got), ErrCacheMiss)
	})
}
