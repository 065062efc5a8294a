package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"groovesync/config"
	deliverycontext "groovesync/internal/delivery/context"
)

// quietPaths are probed constantly and only logged at debug level.
var quietPaths = map[string]bool{
	"/health": true,
}

// LoggerMiddleware writes one access log line per request.
type LoggerMiddleware struct {
	logger      *slog.Logger
	debug       bool
	metricsPath string
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	m := &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
	if config.Metrics != nil {
		m.metricsPath = config.Metrics.Path
	}

	return m
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Let the error handler write the response so the logged status is final.
			c.Error(err)
		}
		m.logRequest(c, start, err)

		return nil
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, err error) {
	req := c.Request()
	res := c.Response()
	logger := deliverycontext.GetLoggerOrDefault(req.Context(), m.logger)

	fields := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
	}
	if username, ok := deliverycontext.GetUsername(c); ok {
		fields = append(fields, slog.String("username", username))
	}
	if m.debug {
		fields = append(fields, slog.String("user_agent", req.UserAgent()))
		if len(req.URL.RawQuery) > 0 {
			fields = append(fields, slog.String("query", req.URL.RawQuery))
		}
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	logLevel := slog.LevelInfo
	switch {
	case res.Status >= 500:
		logLevel = slog.LevelError
	case res.Status >= 400:
		logLevel = slog.LevelWarn
	case quietPaths[req.URL.Path] || req.URL.Path == m.metricsPath:
		logLevel = slog.LevelDebug
	}

	logger.LogAttrs(req.Context(), logLevel, "HTTP Request", fields...)
}
