package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by MarkRead when no record has the given id.
var ErrNotFound = errors.New("notification not found")

// Storage is the persistence backend for notification records.
// Implementations: Postgres (production), Memory (development/tests).
type Storage interface {
	// Insert persists a fully populated record.
	Insert(ctx context.Context, rec Record) error

	// MarkRead sets is_read on the record and returns the updated
	// record. Marking an already-read record is a no-op that still
	// succeeds. Returns ErrNotFound for unknown ids.
	MarkRead(ctx context.Context, id string) (*Record, error)

	// Delete removes the record by id and returns it. Deleting an
	// unknown id returns (nil, nil); the operation is idempotent by
	// construction.
	Delete(ctx context.Context, id string) (*Record, error)

	// ListByRecipient returns all records scoped to the recipient and
	// role, newest first.
	ListByRecipient(ctx context.Context, recipientID string, role Role) ([]Record, error)

	// ListUnread returns the unread subset of ListByRecipient.
	ListUnread(ctx context.Context, recipientID string, role Role) ([]Record, error)

	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]Record, error)

	// CountUnread returns the number of unread records for the
	// recipient and role.
	CountUnread(ctx context.Context, recipientID string, role Role) (int, error)
}

// Directory resolves recipient contact data. Broadcast events use it to
// find every admin email address.
type Directory interface {
	AdminEmails(ctx context.Context) ([]string, error)
}
