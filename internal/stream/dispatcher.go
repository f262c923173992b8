package stream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"go.uber.org/zap"

	telemetry "jarvis-core/internal/telemetry/service"
)

const (
	defaultBacklogLimit      = 100
	defaultBacklogDelay      = 100 * time.Millisecond
	defaultHeartbeatInterval = 30 * time.Second
)

// Dispatcher serves the log buffer over server-sent events. Each connection
// gets one delivery goroutine: a connected event, the current backlog as
// individual log events paced to bound burst size, then periodic heartbeats
// until the client goes away. Disconnects are observed via the request
// context, at latest one heartbeat interval after they happen. Entries
// added after the backlog snapshot are not forwarded.
type Dispatcher struct {
	buffer *telemetry.RingBuffer
	logger *zap.Logger

	backlogLimit      int
	backlogDelay      time.Duration
	heartbeatInterval time.Duration
	now               func() time.Time
}

func NewDispatcher(buffer *telemetry.RingBuffer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		buffer:            buffer,
		logger:            logger,
		backlogLimit:      defaultBacklogLimit,
		backlogDelay:      defaultBacklogDelay,
		heartbeatInterval: defaultHeartbeatInterval,
		now:               time.Now,
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	if err := d.stream(ctx, w, flusher); err != nil && ctx.Err() == nil {
		d.logger.Error("Log stream terminated", zap.Error(err))
		// Best effort: the connection may already be gone.
		_ = d.writeEvent(w, flusher, "error", map[string]interface{}{
			"error":     err.Error(),
			"timestamp": d.unixSeconds(),
		})
	}
}

func (d *Dispatcher) stream(ctx context.Context, w http.ResponseWriter, flusher http.Flusher) error {
	err := d.writeEvent(w, flusher, "connected", map[string]interface{}{
		"message":   "Log stream connected",
		"timestamp": d.unixSeconds(),
	})
	if err != nil {
		return err
	}

	for _, entry := range d.buffer.Recent(d.backlogLimit) {
		if ctx.Err() != nil {
			return nil
		}
		if err := d.writeEvent(w, flusher, "log", entry); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d.backlogDelay):
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		err := d.writeEvent(w, flusher, "heartbeat", map[string]interface{}{
			"timestamp": d.unixSeconds(),
			"status":    "connected",
		})
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d.heartbeatInterval):
		}
	}
}

func (d *Dispatcher) writeEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return fmt.Errorf("failed to write %s event: %w", eventType, err)
	}
	flusher.Flush()
	return nil
}

func (d *Dispatcher) unixSeconds() float64 {
	return float64(d.now().UnixNano()) / float64(time.Second)
}
