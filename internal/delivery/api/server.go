package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"

	"groovesync/config"
	"groovesync/internal/delivery"
	apimiddleware "groovesync/internal/delivery/api/middleware"
	"groovesync/internal/delivery/api/router"
	"groovesync/internal/delivery/api/validator"
	"groovesync/internal/delivery/middleware"
	"groovesync/internal/domain/lifecycle"
	"groovesync/internal/errors"
	"groovesync/internal/infra/metrics"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
	}

	e, err := newEcho(params)
	if err != nil {
		return nil, err
	}
	srv.server = e

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// newEcho builds the fully configured echo instance without binding a port.
func newEcho(params ServerParams) (*echo.Echo, error) {
	ipExtractor, err := newIPExtractor(params.Cfg.HTTP.TrustedProxies)
	if err != nil {
		return nil, err
	}

	echoServer := echo.New()
	echoServer.IPExtractor = ipExtractor
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Server.ReadTimeout = params.Cfg.HTTP.Timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = params.Cfg.HTTP.Timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = params.Cfg.HTTP.Timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = params.Cfg.HTTP.Timeouts.IdleTimeout

	// Set up middleware in correct order
	// 1. Recover middleware first (to catch panics early)
	echoServer.Use(echomiddleware.Recover())

	// 2. Request ID middleware (must be before logger to include in logs)
	requestIDMiddleware := middleware.NewRequestIDMiddleware(params.Logger)
	echoServer.Use(requestIDMiddleware.Process)

	// 3. Metrics middleware (outside the logger, which commits error responses)
	metricsMiddleware := apimiddleware.NewMetricsMiddleware(params.Metrics)
	echoServer.Use(metricsMiddleware.Handle)

	// 4. Logger middleware
	loggerMiddleware := middleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	echoServer.Use(loggerMiddleware.Handle)

	// 5. CORS middleware
	echoServer.Use(echomiddleware.CORS())

	// 6. Request body size limit
	echoServer.Use(echomiddleware.BodyLimit(params.Cfg.HTTP.MaxRequestBodySize))

	// Set up centralized error handler
	errorMiddleware := apimiddleware.NewErrorMiddleware(params.Logger)
	echoServer.HTTPErrorHandler = errorMiddleware.HandleHTTPError

	// Set up validator
	echoServer.Validator = validator.New()

	if params.Cfg.Metrics != nil && params.Cfg.Metrics.Enabled {
		echoServer.GET(params.Cfg.Metrics.Path, echo.WrapHandler(params.Metrics.Handler()))
	}

	r := router.NewRouter(params.RouterParams)
	r.RegisterRoutes(echoServer)

	return echoServer, nil
}

// newIPExtractor trusts X-Forwarded-For only from the listed proxies.
// With no proxies configured the TCP peer is the caller.
func newIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	var ranges []*net.IPNet
	for _, entry := range trustedProxies {
		for _, proxy := range strings.Split(entry, ",") {
			proxy = strings.TrimSpace(proxy)
			if proxy == "" {
				continue
			}
			ipRange, err := parseProxyRange(proxy)
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, ipRange)
		}
	}

	if len(ranges) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipRange := range ranges {
		options = append(options, echo.TrustIPRange(ipRange))
	}

	return echo.ExtractIPFromXFFHeader(options...), nil
}

func parseProxyRange(proxy string) (*net.IPNet, error) {
	if !strings.Contains(proxy, "/") {
		ip := net.ParseIP(proxy)
		if ip == nil {
			return nil, errors.Errorf("invalid trusted proxy %q", proxy)
		}
		bits := 128
		if ip.To4() != nil {
			bits = 32
		}

		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
	}

	_, ipRange, err := net.ParseCIDR(proxy)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid trusted proxy %q", proxy)
	}

	return ipRange, nil
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting API HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down API HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
