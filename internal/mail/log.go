package mail

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogMailer logs messages instead of delivering them. Used in
// development and as the fallback when no transport is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (s *LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	messageID := uuid.New().String()
	s.logger.Info("email logged (development mode)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", messageID),
	)
	return messageID, nil
}
