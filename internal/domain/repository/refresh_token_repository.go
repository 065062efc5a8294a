package repository

import (
	"context"

	"groovesync/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrRefreshTokenNotFound is returned when no live record holds the token.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository stores at most one refresh token per user.
type RefreshTokenRepository interface {
	// Store upserts the user's record, replacing any previous token.
	Store(ctx context.Context, token *entity.RefreshToken) error

	// FindValid sweeps expired records, then looks the token up by exact match.
	FindValid(ctx context.Context, token string) (*entity.RefreshToken, error)

	// Delete removes the record holding token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// InvalidateAll removes every record of the user.
	InvalidateAll(ctx context.Context, username string) error

	// DeleteExpired removes every record whose expiry has passed and returns how many went.
	DeleteExpired(ctx context.Context) (int64, error)
}
