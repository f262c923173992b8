package service

import (
	"jarvis-core/internal/telemetry/model"
)

// StatsService derives point-in-time statistics from a ring buffer. It
// never mutates the buffer; cost is linear in the current buffer size.
type StatsService struct {
	buffer *RingBuffer
}

func NewStatsService(buffer *RingBuffer) *StatsService {
	return &StatsService{buffer: buffer}
}

func (ss *StatsService) Collect() model.LogStats {
	bufferStats := ss.buffer.Stats()
	entries := ss.buffer.All()

	stats := model.LogStats{
		Buffer:          bufferStats,
		TotalEntries:    len(entries),
		EntriesByLevel:  make(map[model.Level]int),
		EntriesByModule: make(map[string]int),
	}
	if len(entries) == 0 {
		return stats
	}

	for _, entry := range entries {
		stats.EntriesByLevel[entry.Level]++
		stats.EntriesByModule[entry.Module]++
	}

	// Entries are ordered oldest first.
	oldest := entries[0].Timestamp
	newest := entries[len(entries)-1].Timestamp
	stats.OldestEntry = &oldest
	stats.NewestEntry = &newest
	return stats
}
