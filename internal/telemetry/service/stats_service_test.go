package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"jarvis-core/internal/telemetry/model"
)

func TestStatsService_Collect(t *testing.T) {
	t.Run("Breaks entries down by level and module", func(t *testing.T) {
		rb := NewRingBuffer(10, model.DropOldest, zap.NewNop())
		rb.Add(model.LogEntry{Timestamp: 1, Level: model.InfoLevel, Module: "alpha"})
		rb.Add(model.LogEntry{Timestamp: 2, Level: model.ErrorLevel, Module: "beta"})
		rb.Add(model.LogEntry{Timestamp: 3, Level: model.InfoLevel, Module: "alpha"})

		stats := NewStatsService(rb).Collect()
		assert.Equal(t, 3, stats.TotalEntries)
		assert.Equal(t, 2, stats.EntriesByLevel[model.InfoLevel])
		assert.Equal(t, 1, stats.EntriesByLevel[model.ErrorLevel])
		assert.Equal(t, 2, stats.EntriesByModule["alpha"])
		assert.Equal(t, 1, stats.EntriesByModule["beta"])
	})

	t.Run("Reports the oldest and newest timestamps", func(t *testing.T) {
		rb := NewRingBuffer(10, model.DropOldest, zap.NewNop())
		rb.Add(model.LogEntry{Timestamp: 5, Level: model.InfoLevel, Module: "alpha"})
		rb.Add(model.LogEntry{Timestamp: 9, Level: model.InfoLevel, Module: "alpha"})

		stats := NewStatsService(rb).Collect()
		assert.NotNil(t, stats.OldestEntry)
		assert.NotNil(t, stats.NewestEntry)
		assert.Equal(t, 5.0, *stats.OldestEntry)
		assert.Equal(t, 9.0, *stats.NewestEntry)
	})

	t.Run("Carries the buffer counters through", func(t *testing.T) {
		rb := NewRingBuffer(2, model.DropOldest, zap.NewNop())
		for i := 0; i < 3; i++ {
			rb.Add(model.LogEntry{Timestamp: float64(i), Level: model.InfoLevel, Module: "alpha"})
		}

		stats := NewStatsService(rb).Collect()
		assert.Equal(t, int64(3), stats.Buffer.TotalAdded)
		assert.Equal(t, int64(1), stats.Buffer.TotalDropped)
		assert.Equal(t, 2, stats.Buffer.CurrentSize)
	})

	t.Run("Handles an empty buffer", func(t *testing.T) {
		rb := NewRingBuffer(10, model.DropOldest, zap.NewNop())

		stats := NewStatsService(rb).Collect()
		assert.Equal(t, 0, stats.TotalEntries)
		assert.Empty(t, stats.EntriesByLevel)
		assert.Empty(t, stats.EntriesByModule)
		assert.Nil(t, stats.OldestEntry)
		assert.Nil(t, stats.NewestEntry)
	})
}
