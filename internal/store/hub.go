package store

import "sync"

// subscriber is one registered change listener. Recipient-scoped
// subscribers match on both recipient id and role; all-subscribers
// receive every change.
type subscriber struct {
	recipientID string
	role        Role
	all         bool
	fn          func([]Record)
}

// hub tracks live subscribers. Multiple subscribers may be live at once
// and each receives its own full snapshot per change.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscriber
}

func newHub() *hub {
	return &hub{subs: make(map[int]*subscriber)}
}

// subscribe registers a listener and returns its unsubscribe function.
// Unsubscribing twice is harmless.
func (h *hub) subscribe(sub *subscriber) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = sub

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// matching returns the subscribers affected by a change to the given
// recipient scope.
func (h *hub) matching(recipientID string, role Role) []*subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []*subscriber
	for _, sub := range h.subs {
		if sub.all || (sub.recipientID == recipientID && sub.role == role) {
			out = append(out, sub)
		}
	}
	return out
}
