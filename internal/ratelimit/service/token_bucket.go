package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	retryAfterSeconds   = 60
	refillWindowSeconds = 60.0
	defaultMaxKeys      = 10000
)

// tokenBucket is the stored state for one client key. tokens stays within
// [0, capacity]; refill is computed lazily from lastRefill on each
// admission check, so inactive keys need no background maintenance.
type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    int64
	RetryAfter int
}

// TokenBucketLimiter admits requests per client key at an average rate of
// requestsPerMinute, with bucket-sized burst tolerance. The bucket is
// replenished over 60 seconds regardless of capacity. The key table is
// bounded: when full, the bucket with the stalest refill time is evicted.
// A stale bucket is a full bucket, so eviction never grants extra burst.
type TokenBucketLimiter struct {
	mu                sync.Mutex
	buckets           map[string]*tokenBucket
	requestsPerMinute int
	maxKeys           int
	logger            *zap.Logger
	now               func() time.Time
}

func NewTokenBucketLimiter(requestsPerMinute int, maxKeys int, logger *zap.Logger) *TokenBucketLimiter {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &TokenBucketLimiter{
		buckets:           make(map[string]*tokenBucket),
		requestsPerMinute: requestsPerMinute,
		maxKeys:           maxKeys,
		logger:            logger,
		now:               time.Now,
	}
}

// Admit checks and updates the bucket for key. A denial never mutates the
// stored state.
func (l *TokenBucketLimiter) Admit(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	capacity := float64(l.requestsPerMinute)

	bucket, found := l.buckets[key]
	if !found {
		if len(l.buckets) >= l.maxKeys {
			l.evictStalestLocked()
		}
		bucket = &tokenBucket{tokens: capacity, lastRefill: now}
		l.buckets[key] = bucket
	}

	elapsed := now.Sub(bucket.lastRefill).Seconds()
	tokens := bucket.tokens + elapsed*capacity/refillWindowSeconds
	if tokens > capacity {
		tokens = capacity
	}

	if tokens < 1 {
		l.logger.Warn("Rate limit exceeded", zap.String("client", key))
		return Decision{
			Allowed:    false,
			Limit:      l.requestsPerMinute,
			Remaining:  0,
			ResetAt:    now.Unix() + retryAfterSeconds,
			RetryAfter: retryAfterSeconds,
		}
	}

	tokens--
	bucket.tokens = tokens
	bucket.lastRefill = now
	return Decision{
		Allowed:   true,
		Limit:     l.requestsPerMinute,
		Remaining: int(tokens),
		ResetAt:   now.Unix() + retryAfterSeconds,
	}
}

// TrackedKeys returns the number of client keys currently held.
func (l *TokenBucketLimiter) TrackedKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *TokenBucketLimiter) evictStalestLocked() {
	var stalestKey string
	var stalest time.Time
	first := true
	for key, bucket := range l.buckets {
		if first || bucket.lastRefill.Before(stalest) {
			stalestKey = key
			stalest = bucket.lastRefill
			first = false
		}
	}
	if !first {
		delete(l.buckets, stalestKey)
	}
}
