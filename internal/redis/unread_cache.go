package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unreadTTL bounds staleness when an invalidation is missed.
const unreadTTL = 10 * time.Minute

// UnreadCache caches per-recipient unread counts. Every method is best
// effort: Redis failures are logged and reported as misses so the
// caller falls back to the storage backend.
type UnreadCache struct {
	client *Client
	logger *zap.Logger
}

// NewUnreadCache creates an unread-count cache on the given client.
func NewUnreadCache(client *Client, logger *zap.Logger) *UnreadCache {
	return &UnreadCache{client: client, logger: logger}
}

func unreadKey(recipientID, role string) string {
	return fmt.Sprintf("unread:%s:%s", role, recipientID)
}

// Get returns the cached unread count and whether it was present.
func (c *UnreadCache) Get(ctx context.Context, recipientID string, role string) (int, bool) {
	val, err := c.client.rdb.Get(ctx, unreadKey(recipientID, role)).Result()
	if err == redis.Nil {
		return 0, false
	}
	if err != nil {
		c.logger.Warn("unread cache get failed", zap.Error(err))
		return 0, false
	}

	count, err := strconv.Atoi(val)
	if err != nil {
		c.logger.Warn("unread cache holds non-numeric value",
			zap.String("value", val),
		)
		return 0, false
	}
	return count, true
}

// Set stores the unread count for the recipient.
func (c *UnreadCache) Set(ctx context.Context, recipientID string, role string, count int) {
	if err := c.client.rdb.Set(ctx, unreadKey(recipientID, role), count, unreadTTL).Err(); err != nil {
		c.logger.Warn("unread cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached count for the recipient.
func (c *UnreadCache) Invalidate(ctx context.Context, recipientID string, role string) {
	if err := c.client.rdb.Del(ctx, unreadKey(recipientID, role)).Err(); err != nil {
		c.logger.Warn("unread cache invalidate failed", zap.Error(err))
	}
}
