package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	deliverycontext "groovesync/internal/delivery/context"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/service"
)

// RateLimitMiddleware caps requests per caller address.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	logger  *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter service.RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

// Limit answers 429 once the caller exhausted its budget. A limiter failure lets the request through.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()
		allowed, err := m.limiter.Allow(c.Request().Context(), ip)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Warn("Rate limiter unavailable, allowing request", slog.Any("error", err), slog.String("ip", ip))

			return next(c)
		}
		if !allowed {
			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}
