package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiter(client, "test", 3, time.Minute)
	ctx := context.Background()

	for i := range 3 {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Other callers have their own budget.
	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("test:10.0.0.1"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_RestoresMissingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	// A counter left without expiry, e.g. after a failed EXPIRE.
	require.NoError(t, mr.Set("test:1.2.3.4", "5"))
	require.Zero(t, mr.TTL("test:1.2.3.4"))

	limiter := NewRedisLimiter(client, "test", 3, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("test:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_WindowNotExtended(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiter(client, "test", 3, time.Minute)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "ip")
	require.NoError(t, err)
	mr.FastForward(40 * time.Second)
	_, err = limiter.Allow(ctx, "ip")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, mr.TTL("test:ip"))
}

func TestRedisLimiter_BackendError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.SetError("LOADING")

	_, err := NewRedisLimiter(client, "test", 3, time.Minute).Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestIPRateLimiter_Budget(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for range 2 {
		ok, err := limiter.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "ip")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "other-ip")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow(ctx, "ip")
	assert.True(t, ok)
}

func TestIPRateLimiter_DropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = limiter.Allow(ctx, "a")
	now = now.Add(10 * time.Minute)
	_, _ = limiter.Allow(ctx, "b")

	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "b")
}

func TestIPRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(3, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		ok, _ := limiter.Allow(ctx, "ip")
		require.True(t, ok)
	}

	// No trickle refill inside the window.
	for _, step := range []time.Duration{20 * time.Second, 20 * time.Second, 19 * time.Second} {
		now = now.Add(step)
		ok, _ := limiter.Allow(ctx, "ip")
		assert.False(t, ok, "at %s", now.Format(time.TimeOnly))
	}

	now = now.Add(time.Second)
	for range 3 {
		ok, _ := limiter.Allow(ctx, "ip")
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "ip")
	assert.False(t, ok)
}
