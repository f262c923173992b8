package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestLimiter(requestsPerMinute int, maxKeys int) (*TokenBucketLimiter, *time.Time) {
	limiter := NewTokenBucketLimiter(requestsPerMinute, maxKeys, zap.NewNop())
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	return limiter, &clock
}

func TestTokenBucketLimiter_Admit(t *testing.T) {
	t.Run("Allows a full burst up to the bucket capacity", func(t *testing.T) {
		limiter, _ := newTestLimiter(60, 0)
		for i := 0; i < 60; i++ {
			decision := limiter.Admit("client-a")
			assert.True(t, decision.Allowed, "request %d", i)
			assert.Equal(t, 60, decision.Limit)
			assert.Equal(t, 59-i, decision.Remaining)
		}
	})

	t.Run("Denies once the bucket is exhausted", func(t *testing.T) {
		limiter, _ := newTestLimiter(60, 0)
		for i := 0; i < 60; i++ {
			limiter.Admit("client-a")
		}

		decision := limiter.Admit("client-a")
		assert.False(t, decision.Allowed)
		assert.Equal(t, 0, decision.Remaining)
		assert.Equal(t, 60, decision.RetryAfter)
	})

	t.Run("One elapsed second refills one token at sixty per minute", func(t *testing.T) {
		limiter, clock := newTestLimiter(60, 0)
		for i := 0; i < 60; i++ {
			limiter.Admit("client-a")
		}
		assert.False(t, limiter.Admit("client-a").Allowed)

		*clock = clock.Add(time.Second)
		assert.True(t, limiter.Admit("client-a").Allowed)
		assert.False(t, limiter.Admit("client-a").Allowed)
	})

	t.Run("Refill never exceeds the bucket capacity", func(t *testing.T) {
		limiter, clock := newTestLimiter(10, 0)
		limiter.Admit("client-a")

		*clock = clock.Add(time.Hour)
		decision := limiter.Admit("client-a")
		assert.True(t, decision.Allowed)
		assert.Equal(t, 9, decision.Remaining)
	})

	t.Run("A denial does not consume pending refill", func(t *testing.T) {
		limiter, clock := newTestLimiter(60, 0)
		for i := 0; i < 60; i++ {
			limiter.Admit("client-a")
		}

		// Half a second of refill is not yet a whole token; the denial
		// must leave it in place so the full second still grants one.
		*clock = clock.Add(500 * time.Millisecond)
		assert.False(t, limiter.Admit("client-a").Allowed)
		*clock = clock.Add(500 * time.Millisecond)
		assert.True(t, limiter.Admit("client-a").Allowed)
	})

	t.Run("Keys are tracked independently", func(t *testing.T) {
		limiter, _ := newTestLimiter(1, 0)
		assert.True(t, limiter.Admit("client-a").Allowed)
		assert.False(t, limiter.Admit("client-a").Allowed)
		assert.True(t, limiter.Admit("client-b").Allowed)
	})
}

func TestTokenBucketLimiter_KeyTable(t *testing.T) {
	t.Run("Evicts the stalest key when the table is full", func(t *testing.T) {
		limiter, clock := newTestLimiter(60, 3)
		for i := 0; i < 3; i++ {
			limiter.Admit(fmt.Sprintf("client-%d", i))
			*clock = clock.Add(time.Second)
		}
		assert.Equal(t, 3, limiter.TrackedKeys())

		limiter.Admit("client-3")
		assert.Equal(t, 3, limiter.TrackedKeys())

		// client-0 had the stalest refill; its bucket comes back full.
		decision := limiter.Admit("client-0")
		assert.True(t, decision.Allowed)
		assert.Equal(t, 59, decision.Remaining)
	})

	t.Run("Falls back to the default bound for a non-positive max", func(t *testing.T) {
		limiter := NewTokenBucketLimiter(60, -1, zap.NewNop())
		assert.Equal(t, defaultMaxKeys, limiter.maxKeys)
	})
}
