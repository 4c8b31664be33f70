// Package ratelimit gates outbound call admission with a token bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket admits up to capacity calls per period. The whole bucket is
// refilled once a full period has elapsed since the last refill; tokens are
// not returned early.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	period     time.Duration
	lastRefill time.Time

	now func() time.Time
}

// NewTokenBucket builds a bucket admitting capacity calls per period. A
// non-positive capacity is clamped to one token so Acquire can always make
// progress.
func NewTokenBucket(capacity int, period time.Duration) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	b := &TokenBucket{
		tokens:   capacity,
		capacity: capacity,
		period:   period,
		now:      time.Now,
	}
	b.lastRefill = b.now()
	return b
}

// Acquire blocks until a token is available or the context is done. The lock
// is released while waiting so other callers are not starved.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	b.mu.Lock()
	b.refill()

	for b.tokens <= 0 {
		wait := b.timeUntilRefill()
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		b.mu.Lock()
		b.refill()
	}

	b.tokens--
	b.mu.Unlock()
	return nil
}

// Release is a no-op: tokens are not returned to the bucket before the next
// refill window.
func (b *TokenBucket) Release() {}

// Reset restores full capacity immediately.
func (b *TokenBucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = b.capacity
	b.lastRefill = b.now()
}

// GetRemainingCalls returns how many calls may still be admitted in the
// current window.
func (b *TokenBucket) GetRemainingCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokens < 0 {
		return 0
	}
	return b.tokens
}

// refill resets the bucket when a full period has elapsed. Callers must hold
// the lock.
func (b *TokenBucket) refill() {
	now := b.now()
	if now.Sub(b.lastRefill) >= b.period {
		b.tokens = b.capacity
		b.lastRefill = now
	}
}

// timeUntilRefill computes how long to wait for the next window. Callers
// must hold the lock.
func (b *TokenBucket) timeUntilRefill() time.Duration {
	elapsed := b.now().Sub(b.lastRefill)
	if remaining := b.period - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}
