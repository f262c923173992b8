package router

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"jarvis-core/internal/config"
	"jarvis-core/internal/query_server/handler"
	"jarvis-core/internal/query_server/middleware"
	ratelimit "jarvis-core/internal/ratelimit/service"
	redaction "jarvis-core/internal/redaction/service"
	"jarvis-core/internal/stream"
	telemetry "jarvis-core/internal/telemetry/service"
)
import "github.com/gorilla/mux"

// CreateRouter wires the HTTP surface: the telemetry endpoints, the SSE
// stream, and the scaffold stubs, behind the middleware chain. The rate
// limiter runs first so denied requests never execute a handler; request
// logging only sees admitted traffic. JSON query responses are gzipped;
// the SSE stream is not.
func CreateRouter(
	settings config.Settings,
	buffer *telemetry.RingBuffer,
	statsService *telemetry.StatsService,
	redactor *redaction.PIIRedactor,
	limiter *ratelimit.TokenBucketLimiter,
	dispatcher *stream.Dispatcher,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.RateLimit(limiter, logger))
	r.Use(middleware.RequestId())
	r.Use(middleware.RequestLogging(buffer, redactor, logger))
	r.Use(middleware.SecurityHeaders())

	r.Handle("/logs/stream", dispatcher).Methods("GET")
	r.Handle(
		"/logs/recent", gzhttp.GzipHandler(handler.RecentLogsHandler(buffer, logger)),
	).Methods("GET")
	r.Handle(
		"/logs/search", gzhttp.GzipHandler(handler.SearchLogsHandler(buffer, logger)),
	).Methods("POST")
	r.Handle(
		"/logs/stats", gzhttp.GzipHandler(handler.LogStatsHandler(statsService, logger)),
	).Methods("GET")
	r.Handle("/logs/clear", handler.ClearLogsHandler(buffer, logger)).Methods("DELETE")

	r.Handle("/", handler.RootHandler(logger)).Methods("GET")
	r.Handle("/health/live", handler.LiveHandler(logger)).Methods("GET")
	r.Handle("/health/ready", handler.ReadyHandler(logger)).Methods("GET")
	r.Handle("/info", handler.InfoHandler(settings, logger)).Methods("GET")

	r.Handle("/metrics", handler.MetricsHandler(logger)).Methods("GET")
	r.Handle("/metrics/router", handler.RouterMetricsHandler(logger)).Methods("GET")
	r.Handle("/metrics/e2e", handler.E2EMetricsHandler(logger)).Methods("GET")
	r.Handle("/metrics/errors", handler.ErrorMetricsHandler(logger)).Methods("GET")
	r.Handle("/metrics/system", handler.SystemMetricsHandler(logger)).Methods("GET")

	return r
}
