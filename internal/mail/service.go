package mail

import (
	"context"
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/event"
	"github.com/storely/herald/internal/metrics"
	"github.com/storely/herald/internal/render"
)

// emailRegex is the recipient-address gate applied before any render or
// transport work happens.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service validates, renders, and delivers event emails. Delivery is
// strictly best effort: every failure, whether validation, render, or
// transport, is converted into a Response and never raised to callers.
type Service struct {
	mailer   Mailer
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewService creates an email dispatch service.
func NewService(mailer Mailer, renderer *render.Renderer, logger *zap.Logger) *Service {
	return &Service{
		mailer:   mailer,
		renderer: renderer,
		logger:   logger,
	}
}

// SendEmail validates the payload, renders it, and submits it to the
// transport. It never returns an error; all failure modes collapse into
// Response{Success: false}.
func (s *Service) SendEmail(ctx context.Context, p event.EmailPayload) Response {
	resp := s.send(ctx, p)
	metrics.RecordEmailSent(string(p.Kind), resp.Success)
	return resp
}

func (s *Service) send(ctx context.Context, p event.EmailPayload) Response {
	if !emailRegex.MatchString(p.To) {
		s.logger.Warn("rejecting email with invalid recipient address",
			zap.String("kind", string(p.Kind)),
			zap.String("to", p.To),
		)
		return Response{Success: false, Error: "invalid recipient address"}
	}

	rendered, err := s.renderer.Render(p)
	if err != nil {
		s.logger.Error("failed to render email",
			zap.Error(err),
			zap.String("kind", string(p.Kind)),
		)
		return Response{Success: false, Error: err.Error()}
	}

	messageID, err := s.mailer.Send(ctx, Message{
		To:      p.To,
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	})
	if err != nil {
		// Raw transport errors stay in the server log; the response
		// carries a generic message.
		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.String("kind", string(p.Kind)),
			zap.String("to", p.To),
		)
		return Response{Success: false, Error: "email delivery failed"}
	}

	return Response{Success: true, MessageID: messageID}
}

// SendMultipleEmails fans out SendEmail concurrently and collects one
// Response per payload in input order. All sends settle regardless of
// individual failures.
func (s *Service) SendMultipleEmails(ctx context.Context, payloads []event.EmailPayload) []Response {
	responses := make([]Response, len(payloads))

	var wg sync.WaitGroup
	for i, p := range payloads {
		wg.Add(1)
		go func(i int, p event.EmailPayload) {
			defer wg.Done()
			responses[i] = s.SendEmail(ctx, p)
		}(i, p)
	}
	wg.Wait()

	return responses
}
