// Package persistence selects the repository backend named by mongo.driver.
package persistence

import (
	"log/slog"

	"go.uber.org/fx"

	"groovesync/config"
	"groovesync/internal/domain/repository"
	"groovesync/internal/errors"
	"groovesync/internal/infra/persistence/memory"
	"groovesync/internal/infra/persistence/mongodb"
)

// Driver names accepted in mongo.driver.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Repositories is every repository the use cases depend on.
type Repositories struct {
	fx.Out

	Users         repository.UserRepository
	RefreshTokens repository.RefreshTokenRepository
	Reviews       repository.ReviewRepository
	Favorites     repository.FavoriteRepository
	Follows       repository.FollowRepository
}

// New builds the repositories on the configured backend.
func New(params Params) (Repositories, error) {
	switch params.Config.Mongo.Driver {
	case "", DriverMongo:
		db, err := mongodb.New(mongodb.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			Users:         mongodb.NewUserRepository(db),
			RefreshTokens: mongodb.NewRefreshTokenRepository(db),
			Reviews:       mongodb.NewReviewRepository(db),
			Favorites:     mongodb.NewFavoriteRepository(db),
			Follows:       mongodb.NewFollowRepository(db),
		}, nil
	case DriverMemory:
		params.Logger.Warn("using in-memory persistence, data is lost on restart")
		store := memory.New()

		return Repositories{
			Users:         store.Users(),
			RefreshTokens: store.RefreshTokens(),
			Reviews:       store.Reviews(),
			Favorites:     store.Favorites(),
			Follows:       store.Follows(),
		}, nil
	default:
		return Repositories{}, errors.Errorf("unknown persistence driver %q", params.Config.Mongo.Driver)
	}
}
