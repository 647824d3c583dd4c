// Package availability keeps short-lived availability snapshots in Redis.
// Writers never read from it; they recount inside their transaction.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

const keyPrefix = "availability"

// Logger is the logging surface the cache needs
type Logger interface {
	Warn(format string, v ...interface{})
}

// Cache is safe to use when redis is nil or ttl is zero; it then caches nothing.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger Logger
}

func New(client *redis.Client, ttl time.Duration, logger Logger) *Cache {
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

func key(serviceType domain.ServiceType, date string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, serviceType, date)
}

// Get returns a cached snapshot; any Redis or decode failure is a miss
func (c *Cache) Get(ctx context.Context, serviceType domain.ServiceType, date string) (*domain.AvailabilitySnapshot, bool) {
	if !c.enabled() {
		return nil, false
	}

	val, err := c.redis.Get(ctx, key(serviceType, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("AvailabilityCache: get %s %s: %v", serviceType, date, err)
		}
		return nil, false
	}

	var snapshot domain.AvailabilitySnapshot
	if err := json.Unmarshal(val, &snapshot); err != nil {
		c.logger.Warn("AvailabilityCache: decode %s %s: %v", serviceType, date, err)
		return nil, false
	}

	return &snapshot, true
}

func (c *Cache) Set(ctx context.Context, snapshot *domain.AvailabilitySnapshot) {
	if !c.enabled() || snapshot == nil {
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, key(snapshot.ServiceType, snapshot.Date), data, c.ttl).Err(); err != nil {
		c.logger.Warn("AvailabilityCache: set %s %s: %v", snapshot.ServiceType, snapshot.Date, err)
	}
}

// Invalidate drops the snapshot of one service day
func (c *Cache) Invalidate(ctx context.Context, serviceType domain.ServiceType, date string) {
	if !c.enabled() {
		return
	}

	if err := c.redis.Del(ctx, key(serviceType, date)).Err(); err != nil {
		c.logger.Warn("AvailabilityCache: invalidate %s %s: %v", serviceType, date, err)
	}
}

// InvalidateService drops every snapshot of a service, e.g. after its capacity changed
func (c *Cache) InvalidateService(ctx context.Context, serviceType domain.ServiceType) {
	if !c.enabled() {
		return
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, serviceType)
	iter := c.redis.Scan(ctx, 0, pattern, 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("AvailabilityCache: scan %s: %v", pattern, err)
		return
	}

	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("AvailabilityCache: invalidate %s: %v", serviceType, err)
	}
}
