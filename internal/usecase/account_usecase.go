package usecase

import (
	"context"

	"groovesync/internal/domain/entity"
)

// UpdatePasswordInput defines the data required to change a local password.
type UpdatePasswordInput struct {
	OldPassword string
	NewPassword string
}

// AccountUsecase covers the signed-in user's own account.
type AccountUsecase interface {
	// Profile returns the user with follower and following names filled in.
	Profile(ctx context.Context, username string) (*entity.User, error)

	// DeleteAccount removes the user and revokes their refresh tokens.
	// Reviews, favorites and follows are left in place.
	DeleteAccount(ctx context.Context, username string) error

	UpdatePassword(ctx context.Context, username string, input *UpdatePasswordInput) error
	LinkSpotify(ctx context.Context, username, spotifyID string) error
}
