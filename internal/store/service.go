package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storely/herald/internal/metrics"
)

// UnreadCache is an optional read-through cache for unread counts.
// Implementations must treat every method as best effort; a failing
// cache never fails the operation.
type UnreadCache interface {
	Get(ctx context.Context, recipientID string, role string) (int, bool)
	Set(ctx context.Context, recipientID string, role string, count int)
	Invalidate(ctx context.Context, recipientID string, role string)
}

// Service is the public notification store API. Every operation returns
// a result object or boolean instead of raising; read operations
// degrade to empty results when the backend fails.
type Service struct {
	storage Storage
	hub     *hub
	cache   UnreadCache
	logger  *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithUnreadCache attaches an unread-count cache.
func WithUnreadCache(cache UnreadCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// NewService creates a notification store service on top of a Storage
// backend.
func NewService(storage Storage, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		hub:     newHub(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateNotification assigns an id and creation time, persists the
// record unread, and notifies subscribers.
func (s *Service) CreateNotification(ctx context.Context, p CreateParams) NotificationResponse {
	if p.RecipientID == "" {
		return NotificationResponse{Success: false, Error: "recipient id is required"}
	}
	if !p.RecipientRole.Valid() {
		return NotificationResponse{Success: false, Error: "recipient role must be user or admin"}
	}
	if !p.Kind.Valid() {
		return NotificationResponse{Success: false, Error: "unknown event kind"}
	}

	rec := Record{
		ID:            uuid.New().String(),
		RecipientID:   p.RecipientID,
		RecipientRole: p.RecipientRole,
		Kind:          p.Kind,
		Title:         p.Title,
		Message:       p.Message,
		URL:           p.URL,
		Data:          p.Data,
		IsRead:        false,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.storage.Insert(ctx, rec); err != nil {
		s.logger.Error("failed to create notification",
			zap.Error(err),
			zap.String("recipient_id", p.RecipientID),
			zap.String("kind", string(p.Kind)),
		)
		return NotificationResponse{Success: false, Error: "failed to create notification"}
	}

	metrics.RecordNotificationCreated(string(p.Kind), string(p.RecipientRole))
	s.invalidate(ctx, rec.RecipientID, rec.RecipientRole)
	s.publish(ctx, rec.RecipientID, rec.RecipientRole)

	return NotificationResponse{Success: true, NotificationID: rec.ID}
}

// MarkAsRead marks a single record read. Marking an already-read record
// again is a no-op that still reports success.
func (s *Service) MarkAsRead(ctx context.Context, id string) bool {
	rec, err := s.storage.MarkRead(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to mark notification read",
				zap.Error(err),
				zap.String("notification_id", id),
			)
		}
		return false
	}

	metrics.RecordMarkRead("single")
	s.invalidate(ctx, rec.RecipientID, rec.RecipientRole)
	s.publish(ctx, rec.RecipientID, rec.RecipientRole)
	return true
}

// MarkAllAsRead marks every unread record for the recipient. The result
// reflects only the unread query: individual update failures are logged
// and swallowed, so some records may remain unread after a success.
func (s *Service) MarkAllAsRead(ctx context.Context, recipientID string, role Role) bool {
	unread, err := s.storage.ListUnread(ctx, recipientID, role)
	if err != nil {
		s.logger.Error("failed to list unread notifications",
			zap.Error(err),
			zap.String("recipient_id", recipientID),
			zap.String("role", string(role)),
		)
		return false
	}

	var wg sync.WaitGroup
	for _, rec := range unread {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := s.storage.MarkRead(ctx, id); err != nil {
				s.logger.Warn("failed to mark notification read in bulk",
					zap.Error(err),
					zap.String("notification_id", id),
				)
			}
		}(rec.ID)
	}
	wg.Wait()

	metrics.RecordMarkRead("bulk")
	s.invalidate(ctx, recipientID, role)
	s.publish(ctx, recipientID, role)
	return true
}

// DeleteNotification removes a record by id. Deleting an id that does
// not exist still reports success.
func (s *Service) DeleteNotification(ctx context.Context, id string) bool {
	rec, err := s.storage.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete notification",
			zap.Error(err),
			zap.String("notification_id", id),
		)
		return false
	}

	if rec != nil {
		s.invalidate(ctx, rec.RecipientID, rec.RecipientRole)
		s.publish(ctx, rec.RecipientID, rec.RecipientRole)
	}
	return true
}

// GetUserNotifications returns the recipient's records newest first,
// degrading to an empty slice on backend failure.
func (s *Service) GetUserNotifications(ctx context.Context, recipientID string, role Role) []Record {
	records, err := s.storage.ListByRecipient(ctx, recipientID, role)
	if err != nil {
		s.logger.Error("failed to list notifications",
			zap.Error(err),
			zap.String("recipient_id", recipientID),
			zap.String("role", string(role)),
		)
		return []Record{}
	}
	if records == nil {
		records = []Record{}
	}
	return records
}

// GetAllNotifications returns every record newest first, degrading to
// an empty slice on backend failure.
func (s *Service) GetAllNotifications(ctx context.Context) []Record {
	records, err := s.storage.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list all notifications", zap.Error(err))
		return []Record{}
	}
	if records == nil {
		records = []Record{}
	}
	return records
}

// GetUnreadCount returns the recipient's unread count, consulting the
// cache first when one is attached.
func (s *Service) GetUnreadCount(ctx context.Context, recipientID string, role Role) int {
	if s.cache != nil {
		if count, ok := s.cache.Get(ctx, recipientID, string(role)); ok {
			metrics.RecordUnreadCacheLookup(true)
			return count
		}
		metrics.RecordUnreadCacheLookup(false)
	}

	count, err := s.storage.CountUnread(ctx, recipientID, role)
	if err != nil {
		s.logger.Error("failed to count unread notifications",
			zap.Error(err),
			zap.String("recipient_id", recipientID),
			zap.String("role", string(role)),
		)
		return 0
	}

	if s.cache != nil {
		s.cache.Set(ctx, recipientID, string(role), count)
	}
	return count
}

// OnUserNotificationsChange registers a listener that receives the
// recipient's full record set after every change to it. The returned
// function unsubscribes the listener.
func (s *Service) OnUserNotificationsChange(recipientID string, role Role, fn func([]Record)) func() {
	return s.hub.subscribe(&subscriber{
		recipientID: recipientID,
		role:        role,
		fn:          fn,
	})
}

// OnAllNotificationsChange registers a listener that receives the full
// record set after every change.
func (s *Service) OnAllNotificationsChange(fn func([]Record)) func() {
	return s.hub.subscribe(&subscriber{all: true, fn: fn})
}

// publish pushes fresh snapshots to every subscriber affected by a
// change in the given recipient scope. Callbacks run on the mutating
// goroutine; each subscriber gets an independent snapshot.
func (s *Service) publish(ctx context.Context, recipientID string, role Role) {
	for _, sub := range s.hub.matching(recipientID, role) {
		var snapshot []Record
		var err error
		if sub.all {
			snapshot, err = s.storage.ListAll(ctx)
		} else {
			snapshot, err = s.storage.ListByRecipient(ctx, sub.recipientID, sub.role)
		}
		if err != nil {
			s.logger.Warn("failed to build subscriber snapshot", zap.Error(err))
			continue
		}
		if snapshot == nil {
			snapshot = []Record{}
		}
		metrics.RecordSubscriptionPush()
		sub.fn(snapshot)
	}
}

func (s *Service) invalidate(ctx context.Context, recipientID string, role Role) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, recipientID, string(role))
	}
}
