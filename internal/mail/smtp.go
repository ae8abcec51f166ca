package mail

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SMTPConfig holds the outbound SMTP account settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: cfg,
		logger: logger,
	}
}

// Send submits one message to the relay. The returned id is generated
// locally; plain SMTP has no server-assigned message id in the reply.
func (s *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	messageID := uuid.New().String()

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	raw := buildMIME(s.config.From, msg, messageID)
	if err := smtp.SendMail(addr, auth, s.config.From, []string{msg.To}, raw); err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	s.logger.Info("email sent via smtp",
		zap.String("to", msg.To),
		zap.String("message_id", messageID),
	)

	return messageID, nil
}

// buildMIME assembles a multipart/alternative message carrying both the
// plain-text and HTML bodies.
func buildMIME(from string, msg Message, messageID string) []byte {
	boundary := "herald-" + messageID

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(`Content-Type: multipart/alternative; boundary="` + boundary + `"` + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}
