package model

// BufferStats is a point-in-time snapshot of ring buffer counters. Rates
// are derived from the counters and the buffer's uptime.
type BufferStats struct {
	CurrentSize   int          `json:"current_size"`
	MaxSize       int          `json:"max_size"`
	UsageRatio    float64      `json:"usage_ratio"`
	TotalAdded    int64        `json:"total_added"`
	TotalDropped  int64        `json:"total_dropped"`
	DroppedOldest int64        `json:"dropped_oldest"`
	AddRate       float64      `json:"add_rate"`
	DropRate      float64      `json:"drop_rate"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	Policy        BufferPolicy `json:"policy"`
}

// SearchParams are the filters for a buffer search. Nil fields are not
// applied, which keeps a present-but-zero timestamp meaningful.
type SearchParams struct {
	Level         *Level
	Module        *string
	CorrelationId *string
	StartTime     *float64
	EndTime       *float64
	Limit         int
}
