package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
	"groovesync/internal/domain/service"
	"groovesync/internal/usecase"
)

// Spotify request shapes served by the catalog routes.
const (
	recentTracksLimit   = 5
	topArtistsLimit     = 5
	topArtistsTimeRange = "short_term"
	searchDefaultLimit  = 20
	searchAlbumsLimit   = 10
	searchTypeArtist    = "artist"
	searchTypeAlbum     = "album"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	catalog      service.CatalogService
	userRepo     repository.UserRepository
	reviewRepo   repository.ReviewRepository
	favoriteRepo repository.FavoriteRepository
	logger       *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Catalog      service.CatalogService
	UserRepo     repository.UserRepository
	ReviewRepo   repository.ReviewRepository
	FavoriteRepo repository.FavoriteRepository
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		catalog:      params.Catalog,
		userRepo:     params.UserRepo,
		reviewRepo:   params.ReviewRepo,
		favoriteRepo: params.FavoriteRepo,
		logger:       params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *catalogService) RecentTracks(ctx context.Context, spotifyToken string) (json.RawMessage, error) {
	return srv.catalog.RecentTracks(ctx, spotifyToken, recentTracksLimit)
}

func (srv *catalogService) CurrentlyPlaying(ctx context.Context, spotifyToken string) (json.RawMessage, bool, error) {
	return srv.catalog.CurrentlyPlaying(ctx, spotifyToken)
}

func (srv *catalogService) TopArtists(ctx context.Context, spotifyToken string) (json.RawMessage, error) {
	return srv.catalog.TopArtists(ctx, spotifyToken, topArtistsTimeRange, topArtistsLimit)
}

func (srv *catalogService) Artist(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	return srv.catalog.Artist(ctx, spotifyToken, artistID)
}

func (srv *catalogService) ArtistAlbums(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	return srv.catalog.ArtistAlbums(ctx, spotifyToken, artistID)
}

func (srv *catalogService) SavedAlbums(ctx context.Context, spotifyToken string) (json.RawMessage, error) {
	return srv.catalog.SavedAlbums(ctx, spotifyToken)
}

func (srv *catalogService) Search(ctx context.Context, spotifyToken, query string, limit int) (map[string]json.RawMessage, error) {
	if query == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("query parameter 'q' is required")
	}
	if limit <= 0 {
		limit = searchDefaultLimit
	}

	return srv.catalog.Search(ctx, spotifyToken, query, []string{searchTypeArtist, searchTypeAlbum}, limit)
}

func (srv *catalogService) SearchAlbums(ctx context.Context, spotifyToken, query string, limit int) (json.RawMessage, error) {
	if query == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("query parameter 'q' is required")
	}
	if limit <= 0 {
		limit = searchAlbumsLimit
	}

	result, err := srv.catalog.Search(ctx, spotifyToken, query, []string{searchTypeAlbum}, limit)
	if err != nil {
		return nil, err
	}

	return result[searchTypeAlbum+"s"], nil
}

func (srv *catalogService) User(ctx context.Context, spotifyToken, spotifyID string) (json.RawMessage, error) {
	return srv.catalog.User(ctx, spotifyToken, spotifyID)
}

// AlbumDetails combines the Spotify album with its local reviews and the caller's favorite.
func (srv *catalogService) AlbumDetails(ctx context.Context, spotifyToken, username, albumID string) (*usecase.AlbumDetails, error) {
	album, err := srv.catalog.Album(ctx, spotifyToken, albumID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch album")
	}

	details := &usecase.AlbumDetails{Album: album, Reviews: make([]*usecase.AlbumReview, 0)}

	favorite, err := srv.favoriteRepo.FindByUserAndAlbum(ctx, username, albumID)
	switch {
	case err == nil:
		details.IsFavorite = true
		details.FavoriteID = favorite.ID
	case !errors.Is(err, repository.ErrFavoriteNotFound):
		return nil, errors.Wrap(err, "failed to find favorite")
	}

	reviews, err := srv.reviewRepo.ListByAlbum(ctx, albumID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list album reviews")
	}
	if len(reviews) == 0 {
		return details, nil
	}

	overall := overallRating(reviews)
	details.OverallRating = &overall

	for _, review := range reviews {
		if review.Username == username {
			if details.YourRating == nil {
				rate, text := review.Rate, review.Text
				details.YourRating, details.YourReview = &rate, &text
			}

			continue
		}

		view, err := srv.reviewerView(ctx, spotifyToken, review)
		if err != nil {
			return nil, err
		}
		if view != nil {
			details.Reviews = append(details.Reviews, view)
		}
	}

	return details, nil
}

// reviewerView returns nil for reviews whose author no longer exists.
func (srv *catalogService) reviewerView(ctx context.Context, spotifyToken string, review *entity.Review) (*usecase.AlbumReview, error) {
	author, err := srv.userRepo.FindByUsername(ctx, review.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find review author")
	}

	view := &usecase.AlbumReview{
		Username:    review.Username,
		DisplayName: review.Username,
		Rate:        review.Rate,
		Text:        review.Text,
	}
	if author.SpotifyID == "" {
		return view, nil
	}

	profile, err := srv.catalog.UserProfile(ctx, spotifyToken, author.SpotifyID)
	if err != nil {
		srv.log(ctx).Warn("Failed to fetch reviewer profile", slog.String("username", review.Username), slog.Any("error", err))

		return view, nil
	}
	if profile.DisplayName != "" {
		view.DisplayName = profile.DisplayName
	}
	view.ProfilePicture = profile.ImageURL()

	return view, nil
}

// overallRating is the mean rate rounded to one decimal.
func overallRating(reviews []*entity.Review) float64 {
	var sum float64
	for _, review := range reviews {
		sum += review.Rate
	}

	return math.Round(sum/float64(len(reviews))*10) / 10
}
