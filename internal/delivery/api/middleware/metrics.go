package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/errors"
)

const unmatchedRoute = "unmatched"

// HTTPObserver receives one observation per served request.
type HTTPObserver interface {
	ObserveHTTP(method, path, status string, seconds float64)
}

// MetricsMiddleware records request counts and latencies by route template.
type MetricsMiddleware struct {
	observer HTTPObserver
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(observer HTTPObserver) *MetricsMiddleware {
	return &MetricsMiddleware{observer: observer}
}

// Handle must sit outside the logger middleware, which commits error responses.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		// Route templates keep label cardinality bounded.
		path := c.Path()
		if path == "" {
			path = unmatchedRoute
		}
		status := c.Response().Status
		if err != nil && !c.Response().Committed {
			status = statusOf(err)
		}
		m.observer.ObserveHTTP(c.Request().Method, path, strconv.Itoa(status), time.Since(start).Seconds())

		return err
	}
}

func statusOf(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	return http.StatusInternalServerError
}
