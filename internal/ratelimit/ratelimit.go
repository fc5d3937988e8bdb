// Package ratelimit provides a best-effort request limiter backed by
// redis. When redis is unavailable the limiter fails open: infrastructure
// trouble must never lock callers out of credential flows.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Limiter answers whether an action keyed by a string may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisLimiter counts attempts per key in a fixed window.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter builds a limiter allowing limit attempts per window.
func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the counter for key and reports whether the limit is
// still respected. Redis errors allow the request.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	count, errIncr := l.client.Incr(ctx, key).Result()
	if errIncr != nil {
		log.Warnf("rate limiter unavailable, allowing request: %v", errIncr)
		return true
	}
	if count == 1 {
		if errExpire := l.client.Expire(ctx, key, l.window).Err(); errExpire != nil {
			log.Warnf("rate limiter expire failed: %v", errExpire)
		}
	}
	return count <= l.limit
}

// Unlimited always allows. Used when no redis address is configured.
type Unlimited struct{}

// Allow always reports true.
func (Unlimited) Allow(context.Context, string) bool { return true }
