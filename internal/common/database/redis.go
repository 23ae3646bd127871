// internal/common/database/redis.go
package database

import (
	"context"
	"time"

	"toolbox-ai/internal/common/config"
	"toolbox-ai/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds a Redis client for the generation cache. It does not
// dial; use OpenRedis to fail fast on an unreachable server.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// OpenRedis builds the client and pings it. Failures are CACHE_UNAVAILABLE.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := NewRedis(cfg)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.NewCacheUnavailableError(err)
	}
	return rdb, nil
}
