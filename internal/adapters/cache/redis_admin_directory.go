package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

const notAdminValue = "0"

// cachedAdminValue reports what to store for a lookup result. Only "not an
// admin" is cached.
func cachedAdminValue(isAdmin bool) (string, bool) {
	if isAdmin {
		return "", false
	}
	return notAdminValue, true
}

// RedisAdminDirectory caches negative users.is_admin lookups in front of the
// database. Positive results are always read through so a revoked admin loses
// access on the next request. A Redis failure degrades to a direct lookup.
type RedisAdminDirectory struct {
	client *redis.Client
	next   ports.AdminDirectory
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisAdminDirectory(client *redis.Client, next ports.AdminDirectory, ttl time.Duration, logger *slog.Logger) *RedisAdminDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisAdminDirectory{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.With("module", "cache.admin_directory", "layer", "adapter"),
	}
}

func (d *RedisAdminDirectory) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	key := "cashback:admin:" + userID.String()
	cached, err := d.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached == notAdminValue:
		return false, nil
	case err != nil && !errors.Is(err, redis.Nil):
		d.logger.WarnContext(ctx, "admin flag cache read failed",
			"operation", "is_admin",
			"outcome", "degraded",
			"error", err,
		)
	}

	isAdmin, err := d.next.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	value, cacheable := cachedAdminValue(isAdmin)
	if !cacheable {
		return true, nil
	}
	if err := d.client.Set(ctx, key, value, d.ttl).Err(); err != nil {
		d.logger.WarnContext(ctx, "admin flag cache write failed",
			"operation", "is_admin",
			"outcome", "degraded",
			"error", err,
		)
	}
	return isAdmin, nil
}
