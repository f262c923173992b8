package handler

// RouterMetricsDTO reports router performance placeholders.
// @swagger:model RouterMetricsDTO
type RouterMetricsDTO struct {
	P50           *float64 `json:"p50"`
	P95           *float64 `json:"p95"`
	P99           *float64 `json:"p99"`
	HitRate       *float64 `json:"hit_rate"`
	TotalRequests int      `json:"total_requests"`
	CacheHits     int      `json:"cache_hits"`
	CacheMisses   int      `json:"cache_misses"`
}

// E2EMetricsDTO reports end-to-end latency placeholders.
// @swagger:model E2EMetricsDTO
type E2EMetricsDTO struct {
	P50             *float64 `json:"p50"`
	P95             *float64 `json:"p95"`
	P99             *float64 `json:"p99"`
	TotalRequests   int      `json:"total_requests"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

// ErrorMetricsDTO reports error rate placeholders.
// @swagger:model ErrorMetricsDTO
type ErrorMetricsDTO struct {
	Rate        float64        `json:"rate"`
	TotalErrors int            `json:"total_errors"`
	ErrorTypes  map[string]int `json:"error_types"`
}

// SystemMetricsDTO reports system resource placeholders.
// @swagger:model SystemMetricsDTO
type SystemMetricsDTO struct {
	CPUUsage          *float64 `json:"cpu_usage"`
	MemoryUsage       *float64 `json:"memory_usage"`
	DiskUsage         *float64 `json:"disk_usage"`
	ActiveConnections int      `json:"active_connections"`
}

// MetricsResponseDTO is the combined metrics response.
// @swagger:model MetricsResponseDTO
type MetricsResponseDTO struct {
	Router    RouterMetricsDTO `json:"router"`
	E2E       E2EMetricsDTO    `json:"e2e"`
	Errors    ErrorMetricsDTO  `json:"errors"`
	System    SystemMetricsDTO `json:"system"`
	Timestamp float64          `json:"timestamp"`
}
