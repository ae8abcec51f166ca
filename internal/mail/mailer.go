// Package mail delivers rendered emails over one externally configured
// outbound channel and reports per-message outcomes.
package mail

import "context"

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer is the single outbound email channel. Send returns an opaque
// transport message id on success.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Response is the terminal outcome of one send attempt. There is no
// retry metadata and no queue position; a failed send is final.
type Response struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
