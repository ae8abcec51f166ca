package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/circuitbreaker"
)

func TestProtectedMailerOpensAfterFailures(t *testing.T) {
	inner := newCaptureMailer()
	inner.failFor["down@example.com"] = errors.New("relay down")

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:            "test",
		MaxFailures:     2,
		RecoveryTimeout: time.Hour,
	}, zap.NewNop())
	protected := NewProtectedMailer(inner, breaker, zap.NewNop())

	ctx := context.Background()
	msg := Message{To: "down@example.com", Subject: "s", HTML: "<p>h</p>", Text: "t"}

	for i := 0; i < 2; i++ {
		if _, err := protected.Send(ctx, msg); err == nil {
			t.Fatalf("send %d should fail", i)
		}
	}

	// Circuit is now open: the inner mailer is no longer consulted,
	// even for recipients that would succeed.
	if _, err := protected.Send(ctx, Message{To: "ok@example.com"}); !errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if len(inner.messages()) != 0 {
		t.Error("open circuit must not reach the inner mailer")
	}
}

func TestProtectedMailerPassesThroughWhenClosed(t *testing.T) {
	inner := newCaptureMailer()
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig("test"), zap.NewNop())
	protected := NewProtectedMailer(inner, breaker, zap.NewNop())

	id, err := protected.Send(context.Background(), Message{To: "ok@example.com", Subject: "s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Error("expected a message id from the inner mailer")
	}
}

func TestOpenCircuitBecomesFailedResponse(t *testing.T) {
	inner := newCaptureMailer()
	inner.failFor["ana@example.com"] = errors.New("relay down")

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:            "test",
		MaxFailures:     1,
		RecoveryTimeout: time.Hour,
	}, zap.NewNop())
	svc := testService(NewProtectedMailer(inner, breaker, zap.NewNop()))

	ctx := context.Background()

	// Trip the breaker.
	if resp := svc.SendEmail(ctx, orderPayload("ana@example.com")); resp.Success {
		t.Fatal("first send should fail")
	}

	// Rejections surface exactly like any other delivery failure.
	resp := svc.SendEmail(ctx, orderPayload("other@example.com"))
	if resp.Success {
		t.Fatal("expected failure while the circuit is open")
	}
	if resp.Error != "email delivery failed" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}
