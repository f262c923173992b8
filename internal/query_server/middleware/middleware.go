package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	ratelimit "jarvis-core/internal/ratelimit/service"
	redaction "jarvis-core/internal/redaction/service"
	"jarvis-core/internal/telemetry/model"
	telemetry "jarvis-core/internal/telemetry/service"
)

type contextKey string

const requestIdKey contextKey = "request_id"

// RequestIdFromContext returns the correlation id assigned to the request,
// or the empty string outside the middleware chain.
func RequestIdFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIdKey).(string); ok {
		return id
	}
	return ""
}

// RateLimit gates every request through the token bucket limiter keyed by
// client IP. Rate limit headers are set on gated responses; denials answer
// 429 with a retry-after hint and never reach the next handler.
func RateLimit(limiter *ratelimit.TokenBucketLimiter, logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := limiter.Admit(ClientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt, 10))

			if !decision.Allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				err := json.NewEncoder(w).Encode(map[string]interface{}{
					"detail":      "Rate limit exceeded",
					"retry_after": decision.RetryAfter,
				})
				if err != nil {
					logger.Error("Error encountered when encoding rate limit response", zap.Error(err))
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestId assigns a correlation id to each request, honoring an
// X-Request-ID supplied by the caller.
func RequestId() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get("X-Request-ID")
			if requestId == "" {
				requestId = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestId)

			ctx := context.WithValue(r.Context(), requestIdKey, requestId)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogging emits one telemetry entry per completed request into the
// log buffer, redacted first when a redactor is supplied. This is the main
// in-process producer feeding the telemetry pipeline.
func RequestLogging(
	buffer *telemetry.RingBuffer,
	redactor *redaction.PIIRedactor,
	logger *zap.Logger,
) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			level := model.InfoLevel
			if recorder.status >= http.StatusInternalServerError {
				level = model.ErrorLevel
			}

			entry := model.LogEntry{
				Timestamp: float64(start.UnixNano()) / float64(time.Second),
				Level:     level,
				Message: fmt.Sprintf(
					"%s %s completed in %.4fs", r.Method, r.URL.Path, duration.Seconds(),
				),
				Module:        "http",
				Function:      "dispatch",
				CorrelationId: RequestIdFromContext(r.Context()),
				Extra: map[string]interface{}{
					"method":   r.Method,
					"path":     r.URL.Path,
					"status":   recorder.status,
					"duration": duration.Seconds(),
				},
			}

			if redactor != nil {
				entry.Message = redactor.RedactText(entry.Message)
				entry.Extra = redactor.RedactMap(entry.Extra)
			}

			if !buffer.Add(entry) {
				logger.Warn(
					"Request log entry dropped by buffer policy",
					zap.String("path", r.URL.Path),
				)
			}
		})
	}
}

// SecurityHeaders sets the baseline security headers on every response.
func SecurityHeaders() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-XSS-Protection", "1; mode=block")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"script-src 'self' 'unsafe-inline'; "+
					"style-src 'self' 'unsafe-inline'; "+
					"img-src 'self' data:; "+
					"connect-src 'self' ws: wss:;")

			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder captures the response status for the request log. Flush
// is forwarded so SSE streaming keeps working through the chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Flush() {
	if flusher, ok := sr.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
