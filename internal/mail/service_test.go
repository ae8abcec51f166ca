package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/event"
	"github.com/storely/herald/internal/render"
)

// captureMailer records every message it is handed and can be told to
// fail specific recipients.
type captureMailer struct {
	mu      sync.Mutex
	sent    []Message
	failFor map[string]error
	nextID  int
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{failFor: make(map[string]error)}
}

func (m *captureMailer) Send(_ context.Context, msg Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[msg.To]; ok {
		return "", err
	}

	m.sent = append(m.sent, msg)
	m.nextID++
	return fmt.Sprintf("msg-%d", m.nextID), nil
}

func (m *captureMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func testService(mailer Mailer) *Service {
	renderer := render.New("Storely", "https://storely.example",
		render.WithClock(func() time.Time {
			return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
		}))
	return NewService(mailer, renderer, zap.NewNop())
}

func orderPayload(to string) event.EmailPayload {
	return event.EmailPayload{
		Kind: event.OrderCreated,
		To:   to,
		Name: "Ana",
		Order: &event.Order{
			ID:       "ORD1",
			Items:    []event.OrderItem{{Title: "Mug", Quantity: 1, Price: 42.5}},
			Subtotal: 42.5,
			Total:    42.5,
			Currency: "USD",
		},
	}
}

func TestSendEmailSuccess(t *testing.T) {
	mailer := newCaptureMailer()
	svc := testService(mailer)

	resp := svc.SendEmail(context.Background(), orderPayload("ana@example.com"))

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if resp.MessageID == "" {
		t.Error("expected a message id")
	}

	sent := mailer.messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "ORD1") {
		t.Errorf("subject %q does not mention the order id", sent[0].Subject)
	}
}

func TestSendEmailRejectsInvalidAddress(t *testing.T) {
	mailer := newCaptureMailer()
	svc := testService(mailer)

	for _, addr := range []string{"", "not-an-email", "a b@example.com", "a@b"} {
		resp := svc.SendEmail(context.Background(), orderPayload(addr))
		if resp.Success {
			t.Errorf("address %q should be rejected", addr)
		}
		if resp.Error != "invalid recipient address" {
			t.Errorf("address %q: unexpected error %q", addr, resp.Error)
		}
	}

	if len(mailer.messages()) != 0 {
		t.Error("invalid addresses must never reach the transport")
	}
}

func TestSendEmailRenderFailureNeverReachesTransport(t *testing.T) {
	mailer := newCaptureMailer()
	svc := testService(mailer)

	// Order kind without order data violates the render contract.
	resp := svc.SendEmail(context.Background(), event.EmailPayload{
		Kind: event.OrderCreated,
		To:   "ana@example.com",
		Name: "Ana",
	})

	if resp.Success {
		t.Fatal("expected failure for a contract-violating payload")
	}
	if !strings.Contains(resp.Error, "order data is required") {
		t.Errorf("unexpected error %q", resp.Error)
	}
	if len(mailer.messages()) != 0 {
		t.Error("render failures must never reach the transport")
	}
}

func TestSendEmailTransportFailureIsGeneric(t *testing.T) {
	mailer := newCaptureMailer()
	mailer.failFor["ana@example.com"] = errors.New("smtp 550 relay denied credentials=hunter2")
	svc := testService(mailer)

	resp := svc.SendEmail(context.Background(), orderPayload("ana@example.com"))

	if resp.Success {
		t.Fatal("expected failure when the transport errors")
	}
	if resp.Error != "email delivery failed" {
		t.Errorf("transport details leaked into the response: %q", resp.Error)
	}
}

func TestSendMultipleEmailsAllSettledInOrder(t *testing.T) {
	mailer := newCaptureMailer()
	mailer.failFor["bad@example.com"] = errors.New("mailbox unavailable")
	svc := testService(mailer)

	payloads := []event.EmailPayload{
		orderPayload("one@example.com"),
		orderPayload("bad@example.com"),
		orderPayload("invalid-address"),
		orderPayload("two@example.com"),
	}

	responses := svc.SendMultipleEmails(context.Background(), payloads)

	if len(responses) != len(payloads) {
		t.Fatalf("expected %d responses, got %d", len(payloads), len(responses))
	}

	want := []bool{true, false, false, true}
	for i, ok := range want {
		if responses[i].Success != ok {
			t.Errorf("response %d: expected success=%v, got %+v", i, ok, responses[i])
		}
	}
	if responses[2].Error != "invalid recipient address" {
		t.Errorf("response 2: unexpected error %q", responses[2].Error)
	}
}

func TestSendMultipleEmailsEmptyInput(t *testing.T) {
	svc := testService(newCaptureMailer())

	responses := svc.SendMultipleEmails(context.Background(), nil)
	if len(responses) != 0 {
		t.Fatalf("expected no responses, got %d", len(responses))
	}
}
