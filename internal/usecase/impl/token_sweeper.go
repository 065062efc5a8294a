package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/domain/lifecycle"
	"groovesync/internal/domain/repository"
)

// TokenSweeper removes expired refresh tokens on a cron schedule.
// Lookups sweep on their own, so the schedule only bounds how long dead records linger.
type TokenSweeper struct {
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// TokenSweeperParams holds dependencies for TokenSweeper, injected by Fx.
type TokenSweeperParams struct {
	fx.In
	fx.Lifecycle

	Config           *config.Config
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewTokenSweeper builds the sweeper and, when auth.sweepSchedule is set, schedules it for the app lifetime.
func NewTokenSweeper(params TokenSweeperParams) (*TokenSweeper, error) {
	sweeper := &TokenSweeper{
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}

	schedule := ""
	if params.Config.Auth != nil {
		schedule = params.Config.Auth.SweepSchedule
	}
	if schedule == "" {
		return sweeper, nil
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, sweeper.run); err != nil {
		return nil, errors.Wrapf(err, "invalid sweep schedule %q", schedule)
	}

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			scheduler.Start()
			params.Logger.Info("Refresh token sweeper started", slog.String("schedule", schedule))

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			select {
			case <-scheduler.Stop().Done():
			case <-stopCtx.Done():
			}

			return nil
		},
	})

	return sweeper, nil
}

// Sweep deletes every expired refresh token and returns how many went.
func (s *TokenSweeper) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired refresh tokens")
	}

	return removed, nil
}

func (s *TokenSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("Refresh token sweep failed", slog.Any("error", err))

		return
	}
	if removed > 0 {
		s.logger.Info("Expired refresh tokens removed", slog.Int64("count", removed))
	}
}
