package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"jarvis-core/internal/config"
)

const (
	appName    = "Jarvis Core"
	appVersion = "0.1.0"
)

// RootHandler answers the root endpoint with name/version/status.
func RootHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"message": appName + " API",
			"version": appVersion,
			"status":  "running",
		}, logger)
	}
}

// LiveHandler is the liveness check.
func LiveHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"status":    "ok",
			"timestamp": unixSeconds(time.Now()),
		}, logger)
	}
}

// ReadyHandler is the readiness check.
// TODO: check downstream dependencies (model runtime, database) once they
// are wired in.
func ReadyHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"ready":     true,
			"timestamp": unixSeconds(time.Now()),
		}, logger)
	}
}

// InfoHandler reports application and environment information.
func InfoHandler(settings config.Settings, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"name":        appName,
			"version":     appVersion,
			"environment": settings.Env,
			"debug":       settings.Debug,
		}, logger)
	}
}

// MetricsHandler returns the combined metrics response. The numbers are
// placeholders until a real metrics collector is attached.
func MetricsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, MetricsResponseDTO{
			Router:    placeholderRouterMetrics(),
			E2E:       placeholderE2EMetrics(),
			Errors:    placeholderErrorMetrics(),
			System:    placeholderSystemMetrics(),
			Timestamp: unixSeconds(time.Now()),
		}, logger)
	}
}

// RouterMetricsHandler returns router-specific placeholder metrics.
func RouterMetricsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, placeholderRouterMetrics(), logger)
	}
}

// E2EMetricsHandler returns end-to-end placeholder metrics.
func E2EMetricsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, placeholderE2EMetrics(), logger)
	}
}

// ErrorMetricsHandler returns error-rate placeholder metrics.
func ErrorMetricsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, placeholderErrorMetrics(), logger)
	}
}

// SystemMetricsHandler returns system resource placeholder metrics.
func SystemMetricsHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, placeholderSystemMetrics(), logger)
	}
}

func placeholderRouterMetrics() RouterMetricsDTO {
	return RouterMetricsDTO{
		P50:           f64(0.1),
		P95:           f64(0.5),
		P99:           f64(1.0),
		HitRate:       f64(85.5),
		TotalRequests: 1000,
		CacheHits:     855,
		CacheMisses:   145,
	}
}

func placeholderE2EMetrics() E2EMetricsDTO {
	return E2EMetricsDTO{
		P50:             f64(0.2),
		P95:             f64(0.8),
		P99:             f64(1.5),
		TotalRequests:   1000,
		AvgResponseTime: f64(0.3),
	}
}

func placeholderErrorMetrics() ErrorMetricsDTO {
	return ErrorMetricsDTO{
		Rate:        2.5,
		TotalErrors: 25,
		ErrorTypes:  map[string]int{"timeout": 10, "validation": 8, "internal": 7},
	}
}

func placeholderSystemMetrics() SystemMetricsDTO {
	return SystemMetricsDTO{
		CPUUsage:          f64(45.2),
		MemoryUsage:       f64(67.8),
		DiskUsage:         f64(23.4),
		ActiveConnections: 12,
	}
}

func f64(v float64) *float64 {
	return &v
}
