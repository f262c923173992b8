package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	telemetry "jarvis-core/internal/telemetry/service"
)

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

// RecentLogsHandler creates a handler returning the most recent log
// entries, oldest first.
// @Summary Get recent log entries.
// @Tags logs
// @Produce json
// @Param limit query int false "Maximum number of entries (capped at 1000)"
// @Success 200 {array} LogEntryDTO "Recent log entries, oldest first"
// @Router /logs/recent [get]
func RecentLogsHandler(
	buffer *telemetry.RingBuffer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultQueryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				HttpError(w, "Invalid limit parameter", http.StatusBadRequest, logger)
				return
			}
			limit = parsed
		}
		if limit > maxQueryLimit {
			limit = maxQueryLimit
		}

		writeJSON(w, mapLogEntriesToDTO(buffer.Recent(limit)), logger)
	}
}

// SearchLogsHandler creates a handler for filtered log searches. Results
// are newest first, the opposite order from /logs/recent.
// @Summary Search log entries with filters.
// @Tags logs
// @Accept json
// @Produce json
// @Param filter body LogFilterDTO true "The optional search filters"
// @Success 200 {array} LogEntryDTO "Matching log entries, newest first"
// @Failure 400 {object} ErrorMessage "Invalid request payload"
// @Router /logs/search [post]
func SearchLogsHandler(
	buffer *telemetry.RingBuffer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogFilterDTO
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		entries := buffer.Search(mapFilterDTOToSearchParams(req))
		writeJSON(w, mapLogEntriesToDTO(entries), logger)
	}
}

// LogStatsHandler creates a handler for buffer statistics plus a
// per-level/per-module breakdown.
// @Summary Get log statistics.
// @Tags logs
// @Produce json
// @Success 200 {object} LogStatsDTO "Buffer statistics and breakdown"
// @Router /logs/stats [get]
func LogStatsHandler(
	statsService *telemetry.StatsService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, mapLogStatsToDTO(statsService.Collect()), logger)
	}
}

// ClearLogsHandler creates a handler that empties the log buffer.
// @Summary Clear all log entries.
// @Tags logs
// @Produce json
// @Success 200 {object} ClearResponseDTO "Number of entries removed"
// @Router /logs/clear [delete]
func ClearLogsHandler(
	buffer *telemetry.RingBuffer,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := buffer.Clear()
		logger.Warn("Logs cleared", zap.Int("cleared_count", count))

		writeJSON(w, ClearResponseDTO{
			Message:      "Cleared " + strconv.Itoa(count) + " log entries",
			ClearedCount: count,
			Timestamp:    unixSeconds(time.Now()),
		}, logger)
	}
}
