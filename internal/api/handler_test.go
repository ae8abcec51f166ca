package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/storely/herald/internal/dispatch"
	"github.com/storely/herald/internal/mail"
	"github.com/storely/herald/internal/render"
	"github.com/storely/herald/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *store.Service, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	notifications := store.NewService(mem, zap.NewNop())

	renderer := render.New("Storely", "https://storely.example",
		render.WithClock(func() time.Time {
			return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
		}))
	emails := mail.NewService(mail.NewLogMailer(zap.NewNop()), renderer, zap.NewNop())

	dispatcher := dispatch.New(notifications, emails, mem, dispatch.Config{
		BaseURL:          "https://storely.example",
		AdminRecipientID: "admins",
	}, zap.NewNop())

	handler := NewHandler(zap.NewNop(), notifications, dispatcher)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/notifications", handler.ListNotifications)
		r.Get("/notifications/all", handler.ListAllNotifications)
		r.Get("/notifications/unread-count", handler.UnreadCount)
		r.Post("/notifications/read-all", handler.MarkAllRead)
		r.Post("/notifications/{id}/read", handler.MarkRead)
		r.Delete("/notifications/{id}", handler.DeleteNotification)

		r.Post("/events/order", handler.TriggerOrderEvent)
		r.Post("/events/account", handler.TriggerAccountEvent)
		r.Post("/events/admin", handler.TriggerAdminEvent)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, notifications, mem
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestTriggerOrderEventCreatesRecord(t *testing.T) {
	srv, notifications, _ := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/events/order", map[string]any{
		"kind":    "ORDER_CREATED",
		"user_id": "u1",
		"email":   "ana@example.com",
		"name":    "Ana",
		"order": map[string]any{
			"id":       "ORD1",
			"items":    []map[string]any{{"title": "Mug", "quantity": 1, "price": 42.5}},
			"subtotal": 42.5,
			"total":    42.5,
			"currency": "USD",
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body store.NotificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.NotificationID == "" {
		t.Fatalf("unexpected response %+v", body)
	}

	records := notifications.GetUserNotifications(context.Background(), "u1", store.RoleUser)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestTriggerOrderEventRejectsUnknownKind(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/events/order", map[string]any{
		"kind":    "WELCOME",
		"user_id": "u1",
		"order":   map[string]any{"id": "ORD1"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListNotificationsScoped(t *testing.T) {
	srv, notifications, _ := setupTestServer(t)
	seedRecord(t, notifications, "u1", store.RoleUser)
	seedRecord(t, notifications, "u2", store.RoleUser)

	resp, err := http.Get(srv.URL + "/v1/notifications?recipient_id=u1&role=user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data  []store.Record `json:"data"`
		Count int            `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("expected 1 record, got %d", body.Count)
	}
	if body.Data[0].RecipientID != "u1" {
		t.Errorf("leaked a record for recipient %q", body.Data[0].RecipientID)
	}
}

func TestListNotificationsRequiresScope(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	for _, path := range []string{
		"/v1/notifications",
		"/v1/notifications?recipient_id=u1",
		"/v1/notifications?recipient_id=u1&role=superuser",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	srv, notifications, _ := setupTestServer(t)
	id := seedRecord(t, notifications, "u1", store.RoleUser)
	seedRecord(t, notifications, "u1", store.RoleUser)

	if got := fetchUnread(t, srv.URL, "u1", "user"); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}

	resp := postJSON(t, srv.URL+"/v1/notifications/"+id+"/read", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if got := fetchUnread(t, srv.URL, "u1", "user"); got != 1 {
		t.Fatalf("expected 1 unread after mark-read, got %d", got)
	}

	// Unknown ids are a 404.
	resp = postJSON(t, srv.URL+"/v1/notifications/missing/read", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMarkAllReadEndpoint(t *testing.T) {
	srv, notifications, _ := setupTestServer(t)
	seedRecord(t, notifications, "u1", store.RoleUser)
	seedRecord(t, notifications, "u1", store.RoleUser)

	resp := postJSON(t, srv.URL+"/v1/notifications/read-all?recipient_id=u1&role=user", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if got := fetchUnread(t, srv.URL, "u1", "user"); got != 0 {
		t.Fatalf("expected 0 unread after read-all, got %d", got)
	}
}

func TestDeleteNotificationEndpoint(t *testing.T) {
	srv, notifications, _ := setupTestServer(t)
	id := seedRecord(t, notifications, "u1", store.RoleUser)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/notifications/"+id, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// Deleting again is still a 204.
	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	if err != nil {
		t.Fatalf("delete again: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 on repeated delete, got %d", resp.StatusCode)
	}
}

func TestTriggerAdminEventBroadcast(t *testing.T) {
	srv, notifications, mem := setupTestServer(t)
	mem.AddAdminEmail("ops@storely.example")

	resp := postJSON(t, srv.URL+"/v1/events/admin", map[string]any{
		"kind":          "ADMIN_NEW_ORDER",
		"customer_name": "Ana",
		"order": map[string]any{
			"id":       "ORD1",
			"total":    42.5,
			"currency": "USD",
		},
	})
	resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	records := notifications.GetUserNotifications(context.Background(), "admins", store.RoleAdmin)
	if len(records) != 1 {
		t.Fatalf("expected 1 admin record, got %d", len(records))
	}
}

func seedRecord(t *testing.T, notifications *store.Service, recipientID string, role store.Role) string {
	t.Helper()
	resp := notifications.CreateNotification(context.Background(), store.CreateParams{
		RecipientID:   recipientID,
		RecipientRole: role,
		Kind:          "ORDER_CREATED",
		Title:         "Order placed",
		Message:       "Your order is in.",
	})
	if !resp.Success {
		t.Fatalf("seed record: %s", resp.Error)
	}
	return resp.NotificationID
}

func fetchUnread(t *testing.T, base, recipientID, role string) int {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s/v1/notifications/unread-count?recipient_id=%s&role=%s", base, recipientID, role))
	if err != nil {
		t.Fatalf("get unread count: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unread count: expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Unread int `json:"unread"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode unread count: %v", err)
	}
	return body.Unread
}
