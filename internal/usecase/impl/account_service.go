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

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	followRepo       repository.FollowRepository
	hasher           service.PasswordHasher
	logger           *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	FollowRepo       repository.FollowRepository
	Hasher           service.PasswordHasher
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		followRepo:       params.FollowRepo,
		hasher:           params.Hasher,
		logger:           params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Profile loads the user and materialises the follow lists.
func (srv *accountService) Profile(ctx context.Context, username string) (*entity.User, error) {
	user, err := srv.findUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if user.Following, err = srv.followRepo.ListFollowing(ctx, username); err != nil {
		return nil, errors.Wrap(err, "failed to list following")
	}
	if user.Followers, err = srv.followRepo.ListFollowers(ctx, username); err != nil {
		return nil, errors.Wrap(err, "failed to list followers")
	}

	return user, nil
}

// DeleteAccount removes the user, then every refresh token it holds.
func (srv *accountService) DeleteAccount(ctx context.Context, username string) error {
	deleted, err := srv.userRepo.Delete(ctx, username)
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	if !deleted {
		return errors.Wrap(domainerrors.ErrUserNotFound, username)
	}

	if err := srv.refreshTokenRepo.InvalidateAll(ctx, username); err != nil {
		return errors.Wrap(err, "failed to revoke refresh tokens")
	}
	srv.log(ctx).Info("Account deleted", slog.String("username", username))

	return nil
}

// UpdatePassword replaces the password after verifying the old one.
func (srv *accountService) UpdatePassword(ctx context.Context, username string, input *usecase.UpdatePasswordInput) error {
	if input == nil || input.OldPassword == "" || input.NewPassword == "" {
		return domainerrors.ErrValidationFailed.WithDetails("old and new passwords are required")
	}

	user, err := srv.findUser(ctx, username)
	if err != nil {
		return err
	}

	if !user.HasPassword() || !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password update rejected, old password mismatch", slog.String("username", username))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "old password is incorrect")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	updated, err := srv.userRepo.UpdatePassword(ctx, username, hashedPassword)
	if err != nil {
		return errors.Wrap(err, "failed to update password")
	}
	if !updated {
		return errors.Wrap(domainerrors.ErrUserNotFound, username)
	}
	srv.log(ctx).Info("Password updated", slog.String("username", username))

	return nil
}

// LinkSpotify attaches a Spotify account to the user.
func (srv *accountService) LinkSpotify(ctx context.Context, username, spotifyID string) error {
	if spotifyID == "" {
		return domainerrors.ErrValidationFailed.WithDetails("spotify id is required")
	}

	owner, err := srv.userRepo.FindByExternalID(ctx, spotifyID)
	switch {
	case err == nil && owner.Username != username:
		return errors.Wrap(domainerrors.ErrSpotifyAccountLinked, spotifyID)
	case err == nil:
		return nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return errors.Wrap(err, "failed to find user by spotify id")
	}

	linked, err := srv.userRepo.LinkExternalID(ctx, username, spotifyID)
	if err != nil {
		return errors.Wrap(err, "failed to link spotify account")
	}
	if !linked {
		return errors.Wrap(domainerrors.ErrUserNotFound, username)
	}
	srv.log(ctx).Info("Spotify account linked", slog.String("username", username), slog.String("spotifyID", spotifyID))

	return nil
}

func (srv *accountService) findUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := srv.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, username)
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}
