package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAcquireWithinCapacity(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		start := time.Now()
		require.NoError(t, bucket.Acquire(ctx))
		assert.Less(t, time.Since(start), 50*time.Millisecond, "acquire %d should not block", i)
	}

	assert.Equal(t, 0, bucket.GetRemainingCalls())
}

func TestTokenBucketClampsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		bucket := ratelimit.NewTokenBucket(capacity, 50*time.Millisecond)
		assert.Equal(t, 1, bucket.GetRemainingCalls(), "capacity %d", capacity)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		require.NoError(t, bucket.Acquire(ctx))
		require.NoError(t, bucket.Acquire(ctx), "second acquire must succeed after a refill")
		cancel()
	}
}

func TestTokenBucketBlocksUntilRefill(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(1, 150*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, bucket.Acquire(ctx))

	start := time.Now()
	require.NoError(t, bucket.Acquire(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond, "second acquire must wait for the refill window")
}

func TestTokenBucketReset(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, bucket.Acquire(ctx))
	require.NoError(t, bucket.Acquire(ctx))
	assert.Equal(t, 0, bucket.GetRemainingCalls())

	bucket.Reset()
	assert.Equal(t, 2, bucket.GetRemainingCalls())

	require.NoError(t, bucket.Acquire(ctx))
	assert.Equal(t, 1, bucket.GetRemainingCalls())
}

func TestTokenBucketReleaseIsNoOp(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(2, time.Hour)
	require.NoError(t, bucket.Acquire(context.Background()))

	bucket.Release()
	assert.Equal(t, 1, bucket.GetRemainingCalls(), "tokens are not returned before the next window")
}

func TestTokenBucketAcquireHonorsContext(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(1, time.Hour)
	require.NoError(t, bucket.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bucket.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenBucketConcurrentAcquire(t *testing.T) {
	bucket := ratelimit.NewTokenBucket(5, 100*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			done <- bucket.Acquire(ctx)
		}()
	}

	// 10 acquires against capacity 5 need one refill; all must finish
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}
}
