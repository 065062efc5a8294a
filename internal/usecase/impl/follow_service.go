package impl

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/domain/service"
	"groovesync/internal/usecase"
)

// followService implements the FollowUsecase interface.
type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	catalog    service.CatalogService
	logger     *slog.Logger
}

// FollowServiceParams holds dependencies for FollowService, injected by Fx.
type FollowServiceParams struct {
	fx.In

	FollowRepo repository.FollowRepository
	UserRepo   repository.UserRepository
	Catalog    service.CatalogService
	Logger     *slog.Logger
}

// NewFollowService is the constructor for followService.
func NewFollowService(params FollowServiceParams) usecase.FollowUsecase {
	return &followService{
		followRepo: params.FollowRepo,
		userRepo:   params.UserRepo,
		catalog:    params.Catalog,
		logger:     params.Logger,
	}
}

func (srv *followService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *followService) Follow(ctx context.Context, follower, followee string) (*entity.Follow, error) {
	if followee == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("username to follow is required")
	}
	if follower == followee {
		return nil, domainerrors.ErrValidationFailed.WithDetails("cannot follow yourself")
	}

	if _, err := srv.userRepo.FindByUsername(ctx, followee); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, followee)
		}

		return nil, errors.Wrap(err, "failed to find user to follow")
	}

	follow := &entity.Follow{Follower: follower, Followee: followee}
	if err := srv.followRepo.Create(ctx, follow); err != nil {
		return nil, errors.Wrap(err, "failed to follow user")
	}
	srv.log(ctx).Debug("User followed", slog.String("follower", follower), slog.String("followee", followee))

	return follow, nil
}

func (srv *followService) Unfollow(ctx context.Context, follower, followee string) error {
	if followee == "" {
		return domainerrors.ErrValidationFailed.WithDetails("username to unfollow is required")
	}

	if err := srv.followRepo.Delete(ctx, follower, followee); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return errors.Wrap(domainerrors.ErrFollowNotFound, followee)
		}

		return errors.Wrap(err, "failed to unfollow user")
	}

	return nil
}

func (srv *followService) Following(ctx context.Context, username, spotifyToken string) ([]*usecase.FollowView, error) {
	names, err := srv.followRepo.ListFollowing(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list following")
	}

	return srv.enrich(ctx, names, spotifyToken)
}

func (srv *followService) Followers(ctx context.Context, username, spotifyToken string) ([]*usecase.FollowView, error) {
	names, err := srv.followRepo.ListFollowers(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list followers")
	}

	return srv.enrich(ctx, names, spotifyToken)
}

// enrich resolves each username to its Spotify display data. Deleted users stay in
// the list with their username only.
func (srv *followService) enrich(ctx context.Context, names []string, spotifyToken string) ([]*usecase.FollowView, error) {
	views := make([]*usecase.FollowView, 0, len(names))
	for _, name := range names {
		view := &usecase.FollowView{Username: name, DisplayName: name}
		views = append(views, view)

		user, err := srv.userRepo.FindByUsername(ctx, name)
		if errors.Is(err, repository.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to find followed user")
		}
		view.SpotifyID = user.SpotifyID

		if spotifyToken == "" || user.SpotifyID == "" {
			continue
		}
		profile, err := srv.catalog.UserProfile(ctx, spotifyToken, user.SpotifyID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch spotify profile of %s", name)
		}
		if profile.DisplayName != "" {
			view.DisplayName = profile.DisplayName
		}
		view.ImageURL = profile.ImageURL()
	}

	return views, nil
}
