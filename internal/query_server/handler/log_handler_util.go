package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jarvis-core/internal/telemetry/model"
)

// ErrorMessage is the body of every error response.
// @swagger:model ErrorMessage
type ErrorMessage struct {
	Message string `json:"message"`
}

// HttpError writes a JSON error response with the given status code.
func HttpError(w http.ResponseWriter, message string, code int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorMessage{Message: message}); err != nil {
		logger.Error("Error encountered when encoding error response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Error encountered when encoding response", zap.Error(err))
		HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func mapLogEntriesToDTO(entries []model.LogEntry) []LogEntryDTO {
	dtos := make([]LogEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapLogEntryToDTO(entry)
	}
	return dtos
}

func mapLogEntryToDTO(entry model.LogEntry) LogEntryDTO {
	return LogEntryDTO{
		Timestamp:     entry.Timestamp,
		Level:         string(entry.Level),
		Message:       entry.Message,
		Module:        entry.Module,
		Function:      entry.Function,
		Line:          entry.Line,
		CorrelationId: entry.CorrelationId,
		UserId:        entry.UserId,
		Extra:         entry.Extra,
	}
}

func mapFilterDTOToSearchParams(dto LogFilterDTO) model.SearchParams {
	params := model.SearchParams{
		Module:        dto.Module,
		CorrelationId: dto.CorrelationId,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		Limit:         dto.Limit,
	}
	if dto.Level != nil {
		level := model.Level(*dto.Level)
		params.Level = &level
	}
	return params
}

func mapLogStatsToDTO(stats model.LogStats) LogStatsDTO {
	byLevel := make(map[string]int, len(stats.EntriesByLevel))
	for level, count := range stats.EntriesByLevel {
		byLevel[string(level)] = count
	}
	return LogStatsDTO{
		Buffer: BufferStatsDTO{
			CurrentSize:   stats.Buffer.CurrentSize,
			MaxSize:       stats.Buffer.MaxSize,
			UsageRatio:    stats.Buffer.UsageRatio,
			TotalAdded:    stats.Buffer.TotalAdded,
			TotalDropped:  stats.Buffer.TotalDropped,
			DroppedOldest: stats.Buffer.DroppedOldest,
			AddRate:       stats.Buffer.AddRate,
			DropRate:      stats.Buffer.DropRate,
			UptimeSeconds: stats.Buffer.UptimeSeconds,
			Policy:        string(stats.Buffer.Policy),
		},
		TotalEntries:    stats.TotalEntries,
		EntriesByLevel:  byLevel,
		EntriesByModule: stats.EntriesByModule,
		OldestEntry:     stats.OldestEntry,
		NewestEntry:     stats.NewestEntry,
	}
}
