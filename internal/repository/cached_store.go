package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/planner"
)

const pendingCacheKey = "reclamos:pending"

// CachedTicketStore wraps a TicketStore with a short-lived Redis cache of the
// pending snapshot. The spreadsheet API is rate limited and the planner
// re-reads on every screen open, so a few seconds of caching absorbs most of
// the traffic. Every write invalidates the cache; commit correctness does not
// depend on it because the committer drops stale rows per-row anyway.
type CachedTicketStore struct {
	inner  planner.TicketStore
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTicketStore wraps a store. A nil client disables caching.
func NewCachedTicketStore(inner planner.TicketStore, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedTicketStore {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &CachedTicketStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

// ReadPendingTickets serves from cache when fresh, otherwise reads through.
func (c *CachedTicketStore) ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, pendingCacheKey).Bytes()
		if err == nil {
			var tickets []domain.Ticket
			if err := json.Unmarshal(raw, &tickets); err == nil {
				return tickets, nil
			}
			c.logger.Warn("discarding corrupt snapshot cache entry")
		} else if err != redis.Nil {
			c.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
	}

	tickets, err := c.inner.ReadPendingTickets(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(tickets); err == nil {
			if err := c.client.Set(ctx, pendingCacheKey, raw, c.ttl).Err(); err != nil {
				c.logger.Warn("snapshot cache write failed", zap.Error(err))
			}
		}
	}
	return tickets, nil
}

// BatchUpdate forwards to the inner store and drops the cached snapshot.
func (c *CachedTicketStore) BatchUpdate(ctx context.Context, updates []planner.TicketUpdate) ([]planner.UpdateResult, error) {
	results, err := c.inner.BatchUpdate(ctx, updates)
	c.Invalidate(ctx)
	return results, err
}

// Invalidate drops the cached snapshot.
func (c *CachedTicketStore) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, pendingCacheKey).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", zap.Error(err))
	}
}
