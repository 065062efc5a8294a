package repository

import (
	"context"
	"errors"

	"groovesync/internal/domain/entity"
)

// ErrFavoriteNotFound is returned when a favorite id matches nothing.
var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteRepository persists favorited albums. Username and album pair is unique.
type FavoriteRepository interface {
	// Create persists the favorite; an existing pair yields domainerrors.ErrFavoriteExists.
	Create(ctx context.Context, favorite *entity.Favorite) error

	// FindByID retrieves a favorite by id.
	FindByID(ctx context.Context, id string) (*entity.Favorite, error)

	// FindByUserAndAlbum retrieves the user's favorite for an album.
	FindByUserAndAlbum(ctx context.Context, username, albumID string) (*entity.Favorite, error)

	// ListByUser returns every favorite of the user, newest first.
	ListByUser(ctx context.Context, username string) ([]*entity.Favorite, error)

	// Delete removes a favorite by id.
	Delete(ctx context.Context, id string) error
}
