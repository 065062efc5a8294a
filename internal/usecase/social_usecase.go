package usecase

import (
	"context"

	"groovesync/internal/domain/entity"
)

// DefaultReviewListLimit is used when the caller asks for no explicit limit.
const DefaultReviewListLimit = 1

// SaveReviewInput defines the data of a new review.
type SaveReviewInput struct {
	AlbumID string
	Rate    float64
	Text    string
}

// UpdateReviewInput holds optional review fields; nil leaves a field unchanged.
type UpdateReviewInput struct {
	Rate *float64
	Text *string
}

// ReviewUsecase manages album reviews.
type ReviewUsecase interface {
	Save(ctx context.Context, username string, input *SaveReviewInput) (*entity.Review, error)
	ListByUser(ctx context.Context, username string, limit int) ([]*entity.Review, error)
	ListByAlbum(ctx context.Context, albumID string) ([]*entity.Review, error)

	// Update and Delete are restricted to the review author.
	Update(ctx context.Context, username, reviewID string, input *UpdateReviewInput) error
	Delete(ctx context.Context, username, reviewID string) error
}

// FavoriteView is a favorite with the album data fetched from Spotify, when available.
type FavoriteView struct {
	Favorite *entity.Favorite
	Album    *entity.Album
}

// FavoriteUsecase manages favorited albums.
type FavoriteUsecase interface {
	Save(ctx context.Context, username, albumID string) (*entity.Favorite, error)

	// ListByUser enriches each favorite with Spotify album data when spotifyToken is set.
	ListByUser(ctx context.Context, username, spotifyToken string) ([]*FavoriteView, error)

	// IsFavorite reports whether the album is a favorite of the user and its favorite id.
	IsFavorite(ctx context.Context, username, albumID string) (bool, string, error)

	// Delete is restricted to the owner of the favorite.
	Delete(ctx context.Context, username, favoriteID string) error
}

// FollowView is one entry of a following or followers list.
type FollowView struct {
	Username    string
	SpotifyID   string
	DisplayName string
	ImageURL    string
}

// FollowUsecase manages follow relationships.
type FollowUsecase interface {
	Follow(ctx context.Context, follower, followee string) (*entity.Follow, error)
	Unfollow(ctx context.Context, follower, followee string) error

	// Following and Followers add Spotify display data when spotifyToken is set
	// and the listed user has a linked Spotify account.
	Following(ctx context.Context, username, spotifyToken string) ([]*FollowView, error)
	Followers(ctx context.Context, username, spotifyToken string) ([]*FollowView, error)
}
