// Package ratelimit implements service.RateLimiter on Redis and in process.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"groovesync/internal/errors"
)

// RedisLimiter is a fixed-window counter shared by every instance of the service.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per key per window.
func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts the request and reports whether the key is still within its budget.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s", r.prefix, key)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		// NX leaves a running window alone and repairs a counter that lost its TTL.
		pipe.ExpireNX(ctx, redisKey, r.window)

		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "rate limiter incr")
	}
	count := incr.Val()

	return count <= int64(r.limit), nil
}
