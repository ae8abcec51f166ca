package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Memory is an in-memory Storage and Directory implementation for
// development and tests.
type Memory struct {
	mu          sync.RWMutex
	records     []Record
	adminEmails []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// AddAdminEmail registers an address returned by AdminEmails.
func (m *Memory) AddAdminEmail(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminEmails = append(m.adminEmails, email)
}

func (m *Memory) AdminEmails(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.adminEmails))
	copy(out, m.adminEmails)
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("record id is required")
	}
	if rec.RecipientID == "" {
		return errors.New("recipient id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory) MarkRead(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].IsRead = true
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].ID == id {
			rec := m.records[i]
			m.records = append(m.records[:i], m.records[i+1:]...)
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListByRecipient(ctx context.Context, recipientID string, role Role) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(func(r Record) bool {
		return r.RecipientID == recipientID && r.RecipientRole == role
	}), nil
}

func (m *Memory) ListUnread(ctx context.Context, recipientID string, role Role) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(func(r Record) bool {
		return r.RecipientID == recipientID && r.RecipientRole == role && !r.IsRead
	}), nil
}

func (m *Memory) ListAll(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(func(Record) bool { return true }), nil
}

func (m *Memory) CountUnread(ctx context.Context, recipientID string, role Role) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.records {
		if r.RecipientID == recipientID && r.RecipientRole == role && !r.IsRead {
			count++
		}
	}
	return count, nil
}

// filter returns copies of matching records, newest first. Must be
// called with the lock held.
func (m *Memory) filter(keep func(Record) bool) []Record {
	out := []Record{}
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
