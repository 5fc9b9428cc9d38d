package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oms/backend/internal/domain/trade"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultStatusCacheTTL bounds staleness of the cached status catalog
const DefaultStatusCacheTTL = 10 * time.Minute

// RedisStatusCache caches a tenant's order status catalog. The catalog
// is tiny and read on almost every order operation, so a read-through
// cache with a short TTL keeps the hot path off the database. Writers
// invalidate after a display update; a miss or Redis outage falls back
// to the repository.
type RedisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisStatusCacheOption is a functional option for configuring the cache
type RedisStatusCacheOption func(*RedisStatusCache)

// WithStatusCacheTTL overrides the catalog entry TTL
func WithStatusCacheTTL(ttl time.Duration) RedisStatusCacheOption {
	return func(c *RedisStatusCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithStatusCacheLogger sets the logger for the cache
func WithStatusCacheLogger(logger *zap.Logger) RedisStatusCacheOption {
	return func(c *RedisStatusCache) {
		c.logger = logger
	}
}

// NewRedisStatusCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisStatusCacheWithClient(client *redis.Client, opts ...RedisStatusCacheOption) *RedisStatusCache {
	cache := &RedisStatusCache{
		client: client,
		ttl:    DefaultStatusCacheTTL,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisStatusCache) catalogKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("order_status:catalog:%s", tenantID.String())
}

// Get retrieves a tenant's status catalog from cache. A miss returns
// (nil, nil); Redis errors are returned so the caller can decide to
// fall through to the repository.
func (c *RedisStatusCache) Get(ctx context.Context, tenantID uuid.UUID) ([]trade.Status, error) {
	data, err := c.client.Get(ctx, c.catalogKey(tenantID)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for status catalog", zap.String("tenant_id", tenantID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get status catalog from cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get status catalog from cache: %w", err)
	}

	var statuses []trade.Status
	if err := json.Unmarshal(data, &statuses); err != nil {
		c.logger.Error("Failed to unmarshal cached status catalog",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal cached status catalog: %w", err)
	}

	return statuses, nil
}

// Set stores a tenant's status catalog in cache with TTL
func (c *RedisStatusCache) Set(ctx context.Context, tenantID uuid.UUID, statuses []trade.Status) error {
	data, err := json.Marshal(statuses)
	if err != nil {
		return fmt.Errorf("failed to marshal status catalog: %w", err)
	}

	if err := c.client.Set(ctx, c.catalogKey(tenantID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache status catalog",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to cache status catalog: %w", err)
	}

	return nil
}

// Invalidate drops a tenant's cached catalog after a display update
func (c *RedisStatusCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.catalogKey(tenantID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate status catalog cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to invalidate status catalog cache: %w", err)
	}
	return nil
}
