package repository

import (
	"context"
	"errors"

	"groovesync/internal/domain/entity"
)

// ErrReviewNotFound is returned when a review id matches nothing.
var ErrReviewNotFound = errors.New("review not found")

// ReviewUpdate holds the optional fields of a review edit.
type ReviewUpdate struct {
	Rate *float64
	Text *string
}

// ReviewRepository persists album reviews.
type ReviewRepository interface {
	// Create persists the review and fills in its ID and CreatedAt.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a review by id.
	FindByID(ctx context.Context, id string) (*entity.Review, error)

	// ListByUser returns the user's reviews, newest first, at most limit entries.
	ListByUser(ctx context.Context, username string, limit int) ([]*entity.Review, error)

	// ListByAlbum returns every review of the album, newest first.
	ListByAlbum(ctx context.Context, albumID string) ([]*entity.Review, error)

	// Update applies the non-nil fields of upd.
	Update(ctx context.Context, id string, upd ReviewUpdate) error

	// Delete removes a review by id.
	Delete(ctx context.Context, id string) error
}
