// Package store persists in-app notification records and pushes change
// snapshots to subscribers.
package store

import (
	"time"

	"github.com/storely/herald/internal/event"
)

// Role is the coarse recipient partition. A record is only visible to
// queries matching both the recipient id and the role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the two known partitions.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Record is a persisted, recipient-scoped, read/unread in-app message.
// ID and CreatedAt are assigned by the store on creation and immutable
// thereafter; IsRead only ever transitions false to true.
type Record struct {
	ID            string         `json:"id"`
	RecipientID   string         `json:"recipient_id"`
	RecipientRole Role           `json:"recipient_role"`
	Kind          event.Kind     `json:"kind"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	URL           string         `json:"url,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	IsRead        bool           `json:"is_read"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CreateParams carries the caller-supplied fields of a new record.
type CreateParams struct {
	RecipientID   string
	RecipientRole Role
	Kind          event.Kind
	Title         string
	Message       string
	URL           string
	Data          map[string]any
}

// NotificationResponse is the terminal outcome of a create operation.
type NotificationResponse struct {
	Success        bool   `json:"success"`
	NotificationID string `json:"notification_id,omitempty"`
	Error          string `json:"error,omitempty"`
}
