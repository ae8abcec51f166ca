package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/store"
)

// StreamNotifications handles GET /v1/notifications/stream?recipient_id=xxx&role=user
// as a server-sent-events feed. Each store change pushes the recipient's
// full record set as one event.
func (h *Handler) StreamNotifications(w http.ResponseWriter, r *http.Request) {
	recipientID, role, ok := h.recipientScope(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming not supported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Snapshots arrive on the mutating goroutine; hand them to this
	// handler through a channel. A full channel drops the push, the
	// next change delivers a fresh snapshot anyway.
	updates := make(chan []store.Record, 8)
	unsubscribe := h.store.OnUserNotificationsChange(recipientID, role, func(records []store.Record) {
		select {
		case updates <- records:
		default:
		}
	})
	defer unsubscribe()

	// Initial snapshot so clients render without waiting for a change.
	h.writeSSE(w, h.store.GetUserNotifications(r.Context(), recipientID, role))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case records := <-updates:
			h.writeSSE(w, records)
			flusher.Flush()
		}
	}
}

func (h *Handler) writeSSE(w http.ResponseWriter, records []store.Record) {
	data, err := json.Marshal(records)
	if err != nil {
		h.logger.Warn("failed to marshal sse snapshot", zap.Error(err))
		return
	}
	fmt.Fprintf(w, "event: notifications\ndata: %s\n\n", data)
}
