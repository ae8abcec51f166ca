package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/storely/herald/internal/circuitbreaker"
)

// ProtectedMailer wraps a Mailer with a circuit breaker. When the relay
// starts failing, requests fail fast instead of piling up; upstream the
// rejection surfaces as an ordinary failed Response, so the best-effort
// delivery contract is unchanged.
type ProtectedMailer struct {
	mailer  Mailer
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewProtectedMailer wraps mailer with the given breaker.
func NewProtectedMailer(mailer Mailer, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *ProtectedMailer {
	return &ProtectedMailer{
		mailer:  mailer,
		breaker: breaker,
		logger:  logger,
	}
}

func (p *ProtectedMailer) Send(ctx context.Context, msg Message) (string, error) {
	if !p.breaker.Allow() {
		p.logger.Warn("email rejected by circuit breaker",
			zap.String("to", msg.To),
		)
		return "", circuitbreaker.ErrCircuitOpen
	}

	messageID, err := p.mailer.Send(ctx, msg)
	if err != nil {
		p.breaker.RecordFailure()
		return "", err
	}

	p.breaker.RecordSuccess()
	return messageID, nil
}
