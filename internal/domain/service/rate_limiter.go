package service

import "context"

// RateLimiter grants or denies one request for a key within the current window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
