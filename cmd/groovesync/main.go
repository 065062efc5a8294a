package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/delivery"
	"groovesync/internal/delivery/api"
	"groovesync/internal/delivery/api/middleware"
	"groovesync/internal/delivery/api/router/handler"
	"groovesync/internal/domain/service"
	"groovesync/internal/infra/auth"
	spotifyoauth "groovesync/internal/infra/auth/spotify"
	logs "groovesync/internal/infra/log"
	"groovesync/internal/infra/metrics"
	"groovesync/internal/infra/persistence"
	"groovesync/internal/infra/ratelimit"
	"groovesync/internal/infra/spotify"
	"groovesync/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			registerSweeper,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		persistence.New,
		metrics.NewRegistry,
		metrics.NewMetrics,
		ratelimit.New,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			spotifyoauth.NewOAuthService,
			newSpotifyClient,
			spotify.NewCatalogService,
			newEventRecorder,
		),
	)
}

// newSpotifyClient builds the Web API client with upstream call counting.
func newSpotifyClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *spotify.Client {
	return spotify.NewClient(cfg, logger, m)
}

// newEventRecorder counts session lifecycle events in Prometheus.
func newEventRecorder(m *metrics.Metrics) service.EventRecorder {
	return m
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewAccountService,
			impl.NewReviewService,
			impl.NewFavoriteService,
			impl.NewFollowService,
			impl.NewCatalogService,
			impl.NewTokenSweeper,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewHealthHandler,
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewReviewHandler,
			handler.NewFavoriteHandler,
			handler.NewFollowHandler,
			handler.NewSpotifyHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// registerSweeper forces construction of the sweeper so its cron hooks are registered.
func registerSweeper(*impl.TokenSweeper) {}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
