package model

// LogStats combines buffer counters with a per-level/per-module breakdown
// of the current contents.
type LogStats struct {
	Buffer          BufferStats    `json:"buffer"`
	TotalEntries    int            `json:"total_entries"`
	EntriesByLevel  map[Level]int  `json:"entries_by_level"`
	EntriesByModule map[string]int `json:"entries_by_module"`
	OldestEntry     *float64       `json:"oldest_entry,omitempty"`
	NewestEntry     *float64       `json:"newest_entry,omitempty"`
}
