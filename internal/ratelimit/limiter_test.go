package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiterForTest(t *testing.T, p Policy) (*miniredis.Miniredis, *RedisLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedisLimiter(client, "rl_test", p)
}

func TestRedisLimiter_AllowThenDeny(t *testing.T) {
	_, l := newRedisLimiterForTest(t, Policy{Limit: 2, Window: time.Minute})
	ctx := context.Background()

	d, err := l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	d, err = l.Allow(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "keys are counted separately")
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	m, l := newRedisLimiterForTest(t, Policy{Limit: 1, Window: time.Minute})
	ctx := context.Background()

	d, _ := l.Allow(ctx, "k")
	require.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "k")
	require.False(t, d.Allowed)

	m.FastForward(time.Minute + time.Second)

	d, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_BackendError(t *testing.T) {
	m, l := newRedisLimiterForTest(t, Policy{Limit: 1, Window: time.Minute})
	m.Close()
	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)

	_, err = NewRedisLimiter(nil, "", Policy{}).Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Policy{Limit: 1, Window: time.Minute})
	l.nowF = func() time.Time { return now }
	ctx := context.Background()

	d, _ := l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "k")
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)

	now = now.Add(time.Minute)
	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_SweepsExpiredKeys(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Policy{Limit: 1, Window: time.Minute})
	l.nowF = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < minSweepSize; i++ {
		_, err := l.Allow(ctx, fmt.Sprintf("stale-%d@example.com", i))
		require.NoError(t, err)
	}
	require.Len(t, l.counts, minSweepSize)

	now = now.Add(30 * time.Second)
	d, _ := l.Allow(ctx, "stale-0@example.com")
	require.False(t, d.Allowed, "existing key is still limited inside its window")

	now = now.Add(time.Minute)
	d, _ = l.Allow(ctx, "fresh@example.com")
	assert.True(t, d.Allowed)
	assert.Len(t, l.counts, 1, "expired windows are dropped when a new key arrives")
	_, ok := l.counts["fresh@example.com"]
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepKeepsLiveWindows(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(Policy{Limit: 1, Window: time.Minute})
	l.nowF = func() time.Time { return now }
	l.sweepAt = 4
	ctx := context.Background()

	for _, k := range []string{"a", "b"} {
		_, _ = l.Allow(ctx, k)
	}
	now = now.Add(45 * time.Second)
	for _, k := range []string{"c", "d"} {
		_, _ = l.Allow(ctx, k)
	}
	now = now.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "e")

	assert.Len(t, l.counts, 3)
	for _, k := range []string{"c", "d", "e"} {
		_, ok := l.counts[k]
		assert.True(t, ok, "live key %s kept", k)
	}
	d, _ := l.Allow(ctx, "c")
	assert.False(t, d.Allowed, "sweep does not reset live budgets")
	assert.Equal(t, minSweepSize, l.sweepAt)
}

func TestNoop(t *testing.T) {
	d, err := Noop{}.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
