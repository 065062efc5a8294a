package usecase

import (
	"context"
	"encoding/json"

	"groovesync/internal/domain/entity"
)

// AlbumReview is another user's review shown on an album page.
type AlbumReview struct {
	Username       string
	DisplayName    string
	ProfilePicture string
	Rate           float64
	Text           string
}

// AlbumDetails aggregates Spotify album data with the local reviews and favorites.
type AlbumDetails struct {
	Album         *entity.Album
	OverallRating *float64 // Mean of every rating, one decimal; nil without reviews.
	YourRating    *float64
	YourReview    *string
	Reviews       []*AlbumReview // Reviews by other users.
	IsFavorite    bool
	FavoriteID    string
}

// CatalogUsecase proxies the Spotify Web API for the signed-in user.
type CatalogUsecase interface {
	RecentTracks(ctx context.Context, spotifyToken string) (json.RawMessage, error)

	// CurrentlyPlaying reports false when nothing is playing.
	CurrentlyPlaying(ctx context.Context, spotifyToken string) (json.RawMessage, bool, error)

	TopArtists(ctx context.Context, spotifyToken string) (json.RawMessage, error)
	Artist(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error)
	ArtistAlbums(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error)
	SavedAlbums(ctx context.Context, spotifyToken string) (json.RawMessage, error)

	// Search looks up artists and albums; limit <= 0 selects the default.
	Search(ctx context.Context, spotifyToken, query string, limit int) (map[string]json.RawMessage, error)

	// SearchAlbums looks up albums only; limit <= 0 selects the default.
	SearchAlbums(ctx context.Context, spotifyToken, query string, limit int) (json.RawMessage, error)

	User(ctx context.Context, spotifyToken, spotifyID string) (json.RawMessage, error)
	AlbumDetails(ctx context.Context, spotifyToken, username, albumID string) (*AlbumDetails, error)
}
