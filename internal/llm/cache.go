package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/metrics"
)

// Forgetter drops a cached response, typically one the resolver rejected.
type Forgetter interface {
	Forget(ctx context.Context, req Request) error
}

// CachedGenerator memoises generated text in Redis. Cache failures are
// logged and never fail a generation.
type CachedGenerator struct {
	next   Generator
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedGenerator(next Generator, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedGenerator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedGenerator{next: next, rdb: rdb, ttl: ttl, prefix: prefix, logger: log}
}

// CacheKey is stable for identical system prompt, prompt and routing.
func (c *CachedGenerator) CacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	if req.SkipPrimary {
		h.Write([]byte{0, 1})
	}
	return c.prefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	key := c.CacheKey(req)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.GenerationCache.WithLabelValues("hit").Inc()
		return cached, nil
	case stderrors.Is(err, redis.Nil):
		metrics.GenerationCache.WithLabelValues("miss").Inc()
	default:
		metrics.GenerationCache.WithLabelValues("error").Inc()
		c.logger.Warn("generation cache read failed", map[string]interface{}{"error": err.Error()})
	}

	text, err := c.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		c.logger.Warn("generation cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return text, nil
}

func (c *CachedGenerator) Forget(ctx context.Context, req Request) error {
	return c.rdb.Del(ctx, c.CacheKey(req)).Err()
}
