package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rate float64, burst int) (*AssistLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := newAssistLimiter(client, rate, burst)
	require.NoError(t, err)
	return limiter, mr
}

func TestAssistLimiterBurstThenDeny(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, 3)
	mr.SetTime(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "42")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := limiter.Allow(ctx, "42")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, time.Second, res.RetryAfter)

	other, err := limiter.Allow(ctx, "43")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "buckets are per account")
}

func TestAssistLimiterRefills(t *testing.T) {
	limiter, mr := newTestLimiter(t, 2, 1)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mr.SetTime(start)
	ctx := context.Background()

	res, err := limiter.Allow(ctx, "42")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, "42")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	mr.SetTime(start.Add(600 * time.Millisecond))
	res, err = limiter.Allow(ctx, "42")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestAssistLimiterDisabledAllows(t *testing.T) {
	var limiter *AssistLimiter
	res, err := limiter.Allow(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.False(t, (&AssistLimiter{}).Enabled())
}

func TestAssistLimiterRejectsBadSettings(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := newAssistLimiter(client, 0, 5)
	assert.Error(t, err)
	_, err = newAssistLimiter(client, 1, 0)
	assert.Error(t, err)
}

func TestTokenBucketValidation(t *testing.T) {
	var nilBucket *TokenBucket
	_, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	bucket := NewTokenBucket(client)

	_, err = bucket.Allow(context.Background(), "", 1, 1)
	assert.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 10*time.Second, defaultBucketTTL(1, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 1))
}
