package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"jarvis-core/internal/config"
	ratelimit "jarvis-core/internal/ratelimit/service"
	"jarvis-core/internal/stream"
	"jarvis-core/internal/telemetry/model"
	telemetry "jarvis-core/internal/telemetry/service"
)

func newTestRouter(requestsPerMinute int) (http.Handler, *telemetry.RingBuffer) {
	logger := zap.NewNop()
	buffer := telemetry.NewRingBuffer(100, model.DropOldest, logger)
	statsService := telemetry.NewStatsService(buffer)
	limiter := ratelimit.NewTokenBucketLimiter(requestsPerMinute, 0, logger)
	dispatcher := stream.NewDispatcher(buffer, logger)
	r := CreateRouter(config.Defaults(), buffer, statsService, nil, limiter, dispatcher, logger)
	return r, buffer
}

func doRequest(r http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "127.0.0.1:4242"
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateRouter(t *testing.T) {
	t.Run("Serves the log endpoints", func(t *testing.T) {
		r, buffer := newTestRouter(1000)
		buffer.Add(model.LogEntry{Timestamp: 1, Level: model.InfoLevel, Message: "hello", Module: "test"})

		recent := doRequest(r, http.MethodGet, "/logs/recent", "")
		assert.Equal(t, http.StatusOK, recent.Code)
		assert.Contains(t, recent.Body.String(), "hello")

		search := doRequest(r, http.MethodPost, "/logs/search", `{"module": "test"}`)
		assert.Equal(t, http.StatusOK, search.Code)
		assert.Contains(t, search.Body.String(), "hello")

		stats := doRequest(r, http.MethodGet, "/logs/stats", "")
		assert.Equal(t, http.StatusOK, stats.Code)
		assert.Contains(t, stats.Body.String(), "current_size")

		cleared := doRequest(r, http.MethodDelete, "/logs/clear", "")
		assert.Equal(t, http.StatusOK, cleared.Code)
		assert.Contains(t, cleared.Body.String(), "cleared_count")
	})

	t.Run("Serves the scaffold endpoints", func(t *testing.T) {
		r, _ := newTestRouter(1000)
		for _, target := range []string{
			"/", "/health/live", "/health/ready", "/info",
			"/metrics", "/metrics/router", "/metrics/e2e", "/metrics/errors", "/metrics/system",
		} {
			recorder := doRequest(r, http.MethodGet, target, "")
			assert.Equal(t, http.StatusOK, recorder.Code, "GET %s", target)
		}
	})

	t.Run("Every response carries rate limit and security headers", func(t *testing.T) {
		r, _ := newTestRouter(1000)
		recorder := doRequest(r, http.MethodGet, "/health/live", "")

		assert.Equal(t, "1000", recorder.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, recorder.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	})

	t.Run("Requests beyond the limit are rejected before any handler", func(t *testing.T) {
		r, buffer := newTestRouter(1)

		first := doRequest(r, http.MethodGet, "/logs/stats", "")
		assert.Equal(t, http.StatusOK, first.Code)

		denied := doRequest(r, http.MethodGet, "/logs/stats", "")
		assert.Equal(t, http.StatusTooManyRequests, denied.Code)
		var body map[string]interface{}
		assert.NoError(t, json.Unmarshal(denied.Body.Bytes(), &body))
		assert.Equal(t, "Rate limit exceeded", body["detail"])

		// Only the admitted request produced a request log entry.
		assert.Len(t, buffer.All(), 1)
	})

	t.Run("Admitted requests are logged into the buffer", func(t *testing.T) {
		r, buffer := newTestRouter(1000)
		doRequest(r, http.MethodGet, "/health/live", "")

		entries := buffer.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "http", entries[0].Module)
		assert.Contains(t, entries[0].Message, "GET /health/live completed in")
	})

	t.Run("Unknown methods are not routed", func(t *testing.T) {
		r, _ := newTestRouter(1000)
		recorder := doRequest(r, http.MethodPost, "/logs/recent", "{}")
		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
	})
}
