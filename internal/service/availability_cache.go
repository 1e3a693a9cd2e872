package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

const availabilityCacheTTL = 30 * time.Second

// AvailabilityCache caches remaining-unit counts per ticket type so hot
// listing endpoints do not hammer Postgres during on-sale spikes. Counts
// are advisory; the ledger in Postgres stays authoritative and every
// reservation invalidates the cached count.
type AvailabilityCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewAvailabilityCache creates a cache backed by Redis. A nil client
// disables caching.
func NewAvailabilityCache(client *redis.Client, log *logger.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, log: log}
}

func availabilityKey(ticketTypeID string) string {
	return "ticket_type:available:" + ticketTypeID
}

// Get returns the cached remaining count, or ok=false on miss or error.
func (c *AvailabilityCache) Get(ctx context.Context, ticketTypeID string) (int, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}

	val, err := c.client.Get(ctx, availabilityKey(ticketTypeID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "availability cache read failed", zap.Error(err))
		}
		return 0, false
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Set stores the remaining count with a short TTL.
func (c *AvailabilityCache) Set(ctx context.Context, ticketTypeID string, available int) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(ticketTypeID), available, availabilityCacheTTL).Err(); err != nil {
		c.log.WarnContext(ctx, "availability cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached count after a reservation or release.
func (c *AvailabilityCache) Invalidate(ctx context.Context, ticketTypeID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, availabilityKey(ticketTypeID)).Err(); err != nil {
		c.log.WarnContext(ctx, "availability cache invalidation failed", zap.Error(err))
	}
}
