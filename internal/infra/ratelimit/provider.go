package ratelimit

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/domain/lifecycle"
	"groovesync/internal/domain/service"
	"groovesync/internal/errors"
)

const keyPrefix = "groovesync:ratelimit"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New picks the Redis limiter when rateLimit.redisAddr is set and the in-process one otherwise.
func New(params Params) service.RateLimiter {
	cfg := params.Config.RateLimit
	if cfg.RedisAddr == "" {
		params.Logger.Info("rate limiter using in-process buckets")

		return NewIPRateLimiter(cfg.Requests, cfg.Window)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			// The limiter fails open, so an unreachable Redis is only worth a warning.
			if err := client.Ping(ctx).Err(); err != nil {
				params.Logger.Warn("rate limiter redis unreachable", slog.Any("error", err))
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.Wrap(client.Close(), "failed to close redis client")
		},
	})

	return NewRedisLimiter(client, keyPrefix, cfg.Requests, cfg.Window)
}
