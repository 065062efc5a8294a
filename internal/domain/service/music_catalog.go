package service

import (
	"context"
	"encoding/json"

	"groovesync/internal/domain/entity"
)

// CatalogService proxies the Spotify Web API on behalf of a user.
// Every call takes the caller's Spotify access token; passthrough endpoints
// return the provider JSON untouched.
type CatalogService interface {
	RecentTracks(ctx context.Context, spotifyToken string, limit int) (json.RawMessage, error)

	// CurrentlyPlaying reports false when nothing is playing.
	CurrentlyPlaying(ctx context.Context, spotifyToken string) (json.RawMessage, bool, error)

	TopArtists(ctx context.Context, spotifyToken, timeRange string, limit int) (json.RawMessage, error)
	Artist(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error)
	ArtistAlbums(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error)
	SavedAlbums(ctx context.Context, spotifyToken string) (json.RawMessage, error)

	// Search runs a catalog search over the given item types ("artist", "album").
	Search(ctx context.Context, spotifyToken, query string, types []string, limit int) (map[string]json.RawMessage, error)

	User(ctx context.Context, spotifyToken, spotifyID string) (json.RawMessage, error)

	// Album fetches and decodes one album.
	Album(ctx context.Context, spotifyToken, albumID string) (*entity.Album, error)

	// UserProfile fetches and decodes a public user profile.
	UserProfile(ctx context.Context, spotifyToken, spotifyID string) (*entity.SpotifyProfile, error)
}
