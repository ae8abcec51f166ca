package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/storely/herald/internal/dispatch"
	"github.com/storely/herald/internal/store"
)

// ErrorResponse represents an error in problem+json format
type ErrorResponse struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Handler holds dependencies for API handlers
type Handler struct {
	logger     *zap.Logger
	store      *store.Service
	dispatcher *dispatch.Dispatcher
}

// NewHandler creates a new API handler
func NewHandler(logger *zap.Logger, st *store.Service, d *dispatch.Dispatcher) *Handler {
	return &Handler{
		logger:     logger,
		store:      st,
		dispatcher: d,
	}
}

// recipientScope pulls the recipient_id/role query pair every scoped
// endpoint requires.
func (h *Handler) recipientScope(w http.ResponseWriter, r *http.Request) (string, store.Role, bool) {
	recipientID := r.URL.Query().Get("recipient_id")
	role := store.Role(r.URL.Query().Get("role"))

	if recipientID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Missing recipient_id", "recipient_id query parameter is required")
		return "", "", false
	}
	if !role.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid role", "role must be user or admin")
		return "", "", false
	}
	return recipientID, role, true
}

// ListNotifications handles GET /v1/notifications?recipient_id=xxx&role=user
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	recipientID, role, ok := h.recipientScope(w, r)
	if !ok {
		return
	}

	records := h.store.GetUserNotifications(r.Context(), recipientID, role)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  records,
		"count": len(records),
	})
}

// ListAllNotifications handles GET /v1/notifications/all
func (h *Handler) ListAllNotifications(w http.ResponseWriter, r *http.Request) {
	records := h.store.GetAllNotifications(r.Context())

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  records,
		"count": len(records),
	})
}

// UnreadCount handles GET /v1/notifications/unread-count?recipient_id=xxx&role=user
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	recipientID, role, ok := h.recipientScope(w, r)
	if !ok {
		return
	}

	count := h.store.GetUnreadCount(r.Context(), recipientID, role)

	h.writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead handles POST /v1/notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.store.MarkAsRead(r.Context(), id) {
		h.writeError(w, http.StatusNotFound, "not_found", "Notification not found", "")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"is_read": true,
	})
}

// MarkAllRead handles POST /v1/notifications/read-all?recipient_id=xxx&role=user
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	recipientID, role, ok := h.recipientScope(w, r)
	if !ok {
		return
	}

	if !h.store.MarkAllAsRead(r.Context(), recipientID, role) {
		h.writeError(w, http.StatusInternalServerError, "storage_error", "Failed to mark notifications read", "")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteNotification handles DELETE /v1/notifications/{id}
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.store.DeleteNotification(r.Context(), id) {
		h.writeError(w, http.StatusInternalServerError, "storage_error", "Failed to delete notification", "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errType, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Type:   errType,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}
