package handler

// LogEntryDTO is the wire form of a telemetry log entry.
// @swagger:model LogEntryDTO
type LogEntryDTO struct {
	// Unix timestamp in seconds
	Timestamp float64 `json:"timestamp"`
	// Log level (DEBUG, INFO, WARNING, ERROR)
	Level string `json:"level"`
	// Log message
	Message string `json:"message"`
	// Module name
	Module string `json:"module"`
	// Function name
	Function string `json:"function"`
	// Line number
	Line int `json:"line"`
	// Correlation ID for request tracking
	CorrelationId string `json:"correlation_id,omitempty"`
	// User ID if authenticated
	UserId string `json:"user_id,omitempty"`
	// Additional log data
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// LogFilterDTO is the request body for a log search. Nil fields are not
// applied as filters.
// @swagger:model LogFilterDTO
type LogFilterDTO struct {
	Level         *string  `json:"level,omitempty"`
	Module        *string  `json:"module,omitempty"`
	CorrelationId *string  `json:"correlation_id,omitempty"`
	StartTime     *float64 `json:"start_time,omitempty"`
	EndTime       *float64 `json:"end_time,omitempty"`
	Limit         int      `json:"limit"`
}

// BufferStatsDTO reports the ring buffer counters and derived rates.
// @swagger:model BufferStatsDTO
type BufferStatsDTO struct {
	CurrentSize   int     `json:"current_size"`
	MaxSize       int     `json:"max_size"`
	UsageRatio    float64 `json:"usage_ratio"`
	TotalAdded    int64   `json:"total_added"`
	TotalDropped  int64   `json:"total_dropped"`
	DroppedOldest int64   `json:"dropped_oldest"`
	AddRate       float64 `json:"add_rate"`
	DropRate      float64 `json:"drop_rate"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Policy        string  `json:"policy"`
}

// LogStatsDTO is the full stats response: buffer counters plus a breakdown
// of the current contents.
// @swagger:model LogStatsDTO
type LogStatsDTO struct {
	Buffer          BufferStatsDTO `json:"buffer"`
	TotalEntries    int            `json:"total_entries"`
	EntriesByLevel  map[string]int `json:"entries_by_level"`
	EntriesByModule map[string]int `json:"entries_by_module"`
	OldestEntry     *float64       `json:"oldest_entry,omitempty"`
	NewestEntry     *float64       `json:"newest_entry,omitempty"`
}

// ClearResponseDTO acknowledges a buffer clear.
// @swagger:model ClearResponseDTO
type ClearResponseDTO struct {
	Message      string  `json:"message"`
	ClearedCount int     `json:"cleared_count"`
	Timestamp    float64 `json:"timestamp"`
}
