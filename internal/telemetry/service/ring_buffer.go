package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"jarvis-core/internal/telemetry/model"
)

const (
	defaultWarnThreshold = 0.8
	warnCooldown         = 60 * time.Second
	blockPollInterval    = 10 * time.Millisecond
	blockWaitTimeout     = 1 * time.Second
)

// RingBuffer is a bounded, ordered store of log entries with a configurable
// overflow policy. Every operation takes the same mutex for its full
// duration, so no caller ever observes a partial mutation. The store never
// holds more than maxSize entries.
type RingBuffer struct {
	mu      sync.Mutex
	entries []model.LogEntry

	maxSize       int
	policy        model.BufferPolicy
	warnThreshold float64
	lastWarning   time.Time

	addCount      int64
	dropCount     int64
	droppedOldest int64
	startTime     time.Time

	pollInterval time.Duration
	waitTimeout  time.Duration

	logger *zap.Logger
	now    func() time.Time
}

func NewRingBuffer(maxSize int, policy model.BufferPolicy, logger *zap.Logger) *RingBuffer {
	return &RingBuffer{
		entries:       make([]model.LogEntry, 0, maxSize),
		maxSize:       maxSize,
		policy:        policy,
		warnThreshold: defaultWarnThreshold,
		startTime:     time.Now(),
		pollInterval:  blockPollInterval,
		waitTimeout:   blockWaitTimeout,
		logger:        logger,
		now:           time.Now,
	}
}

// Add inserts an entry, applying the overflow policy when the buffer is
// full. It reports whether the entry was accepted.
func (rb *RingBuffer) Add(entry model.LogEntry) bool {
	rb.mu.Lock()
	if len(rb.entries) >= rb.maxSize {
		switch rb.policy {
		case model.DropNewest:
			rb.dropCount++
			rb.mu.Unlock()
			return false
		case model.Block:
			// Wait for space without holding the lock, so readers and
			// other writers keep making progress.
			rb.mu.Unlock()
			return rb.waitForSpace(entry)
		default: // DropOldest
			rb.entries = rb.entries[1:]
			rb.droppedOldest++
			rb.dropCount++
		}
	}
	rb.insertLocked(entry)
	rb.mu.Unlock()
	return true
}

// waitForSpace polls for freed capacity until the wait budget elapses.
func (rb *RingBuffer) waitForSpace(entry model.LogEntry) bool {
	deadline := rb.now().Add(rb.waitTimeout)
	for {
		rb.mu.Lock()
		if len(rb.entries) < rb.maxSize {
			rb.insertLocked(entry)
			rb.mu.Unlock()
			return true
		}
		rb.mu.Unlock()

		if rb.now().After(deadline) {
			rb.mu.Lock()
			rb.dropCount++
			rb.mu.Unlock()
			rb.logger.Warn(
				"Log buffer full, dropping entry after block timeout",
				zap.Duration("timeout", rb.waitTimeout),
			)
			return false
		}
		time.Sleep(rb.pollInterval)
	}
}

func (rb *RingBuffer) insertLocked(entry model.LogEntry) {
	rb.entries = append(rb.entries, entry)
	rb.addCount++

	usage := float64(len(rb.entries)) / float64(rb.maxSize)
	if usage >= rb.warnThreshold {
		rb.warnHighUsageLocked(usage)
	}
}

// warnHighUsageLocked emits at most one high-usage warning per cooldown.
func (rb *RingBuffer) warnHighUsageLocked(usage float64) {
	now := rb.now()
	if now.Sub(rb.lastWarning) <= warnCooldown {
		return
	}
	rb.lastWarning = now
	rb.logger.Warn(
		"Log buffer usage high",
		zap.Float64("usage_ratio", usage),
		zap.Int("current_size", len(rb.entries)),
		zap.Int("max_size", rb.maxSize),
	)
}

// Recent returns the most recent min(limit, size) entries, oldest first.
func (rb *RingBuffer) Recent(limit int) []model.LogEntry {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	start := len(rb.entries) - limit
	if start < 0 {
		start = 0
	}
	result := make([]model.LogEntry, len(rb.entries)-start)
	copy(result, rb.entries[start:])
	return result
}

// All returns the full buffer contents, oldest first.
func (rb *RingBuffer) All() []model.LogEntry {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	result := make([]model.LogEntry, len(rb.entries))
	copy(result, rb.entries)
	return result
}

// Search scans newest to oldest, returning at most params.Limit matches in
// newest-first order. Note the asymmetry with Recent and All, which are
// oldest-first.
func (rb *RingBuffer) Search(params model.SearchParams) []model.LogEntry {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	results := make([]model.LogEntry, 0)
	for i := len(rb.entries) - 1; i >= 0; i-- {
		if len(results) >= limit {
			break
		}
		entry := rb.entries[i]
		if params.Level != nil && entry.Level != *params.Level {
			continue
		}
		if params.Module != nil && entry.Module != *params.Module {
			continue
		}
		if params.CorrelationId != nil && entry.CorrelationId != *params.CorrelationId {
			continue
		}
		if params.StartTime != nil && entry.Timestamp < *params.StartTime {
			continue
		}
		if params.EndTime != nil && entry.Timestamp > *params.EndTime {
			continue
		}
		results = append(results, entry)
	}
	return results
}

// Stats returns a snapshot of the buffer counters and derived rates.
func (rb *RingBuffer) Stats() model.BufferStats {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	uptime := rb.now().Sub(rb.startTime).Seconds()
	var addRate, dropRate float64
	if uptime > 0 {
		addRate = float64(rb.addCount) / uptime
		dropRate = float64(rb.dropCount) / uptime
	}

	return model.BufferStats{
		CurrentSize:   len(rb.entries),
		MaxSize:       rb.maxSize,
		UsageRatio:    float64(len(rb.entries)) / float64(rb.maxSize),
		TotalAdded:    rb.addCount,
		TotalDropped:  rb.dropCount,
		DroppedOldest: rb.droppedOldest,
		AddRate:       addRate,
		DropRate:      dropRate,
		UptimeSeconds: uptime,
		Policy:        rb.policy,
	}
}

// Clear empties the buffer and returns the number of entries removed. The
// lifetime counters are preserved.
func (rb *RingBuffer) Clear() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	count := len(rb.entries)
	rb.entries = rb.entries[:0]
	return count
}
