package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// SpotifyHandlerParams holds dependencies for SpotifyHandler, injected by Fx.
type SpotifyHandlerParams struct {
	fx.In

	CatalogUC usecase.CatalogUsecase
	Logger    *slog.Logger
}

// SpotifyHandler proxies the Spotify Web API with the caller's Spotify token.
// Every route sits behind RequireSpotifyToken.
type SpotifyHandler struct {
	catalogUC usecase.CatalogUsecase
	logger    *slog.Logger
}

// NewSpotifyHandler is the constructor for SpotifyHandler
func NewSpotifyHandler(params SpotifyHandlerParams) *SpotifyHandler {
	return &SpotifyHandler{
		catalogUC: params.CatalogUC,
		logger:    params.Logger,
	}
}

// ArtistSummary is the short artist form used in album views.
type ArtistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumReviewResponse is another user's review on an album page.
type AlbumReviewResponse struct {
	Username       string  `json:"username"`
	DisplayName    string  `json:"display_name"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	Rate           float64 `json:"rate"`
	Text           string  `json:"text"`
}

// AlbumInfoResponse is the aggregated album page.
type AlbumInfoResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	URL           string                `json:"url"`
	Image         string                `json:"image"`
	Artists       []ArtistSummary       `json:"artists"`
	ReleaseYear   string                `json:"release_year"`
	OverallRating *float64              `json:"overall_rating"`
	YourRating    *float64              `json:"your_rating"`
	YourReview    *string               `json:"your_review"`
	Reviews       []AlbumReviewResponse `json:"reviews"`
	IsFavorite    bool                  `json:"is_favorite"`
	FavoriteID    string                `json:"favorite_id,omitempty"`
}

func newArtistSummaries(artists []entity.ArtistRef) []ArtistSummary {
	out := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistSummary{ID: a.ID, Name: a.Name})
	}

	return out
}

func newAlbumInfoResponse(details *usecase.AlbumDetails) AlbumInfoResponse {
	album := details.Album
	resp := AlbumInfoResponse{
		ID:            album.ID,
		Name:          album.Name,
		URL:           album.SpotifyURL(),
		Image:         album.ImageURL(),
		Artists:       newArtistSummaries(album.Artists),
		ReleaseYear:   album.ReleaseYear(),
		OverallRating: details.OverallRating,
		YourRating:    details.YourRating,
		YourReview:    details.YourReview,
		Reviews:       make([]AlbumReviewResponse, 0, len(details.Reviews)),
		IsFavorite:    details.IsFavorite,
		FavoriteID:    details.FavoriteID,
	}
	for _, r := range details.Reviews {
		resp.Reviews = append(resp.Reviews, AlbumReviewResponse{
			Username:       r.Username,
			DisplayName:    r.DisplayName,
			ProfilePicture: r.ProfilePicture,
			Rate:           r.Rate,
			Text:           r.Text,
		})
	}

	return resp
}

// RecentTracks returns the caller's last played tracks.
func (h *SpotifyHandler) RecentTracks(c echo.Context) error {
	raw, err := h.catalogUC.RecentTracks(c.Request().Context(), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// CurrentTrack returns what the caller is playing, or 204 when nothing is.
func (h *SpotifyHandler) CurrentTrack(c echo.Context) error {
	raw, playing, err := h.catalogUC.CurrentlyPlaying(c.Request().Context(), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}
	if !playing {
		return c.NoContent(http.StatusNoContent)
	}

	return response.Success(c, http.StatusOK, raw)
}

// Obsessions returns the caller's short term top artists.
func (h *SpotifyHandler) Obsessions(c echo.Context) error {
	raw, err := h.catalogUC.TopArtists(c.Request().Context(), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// Artist returns one artist.
func (h *SpotifyHandler) Artist(c echo.Context) error {
	raw, err := h.catalogUC.Artist(c.Request().Context(), deliverycontext.GetSpotifyToken(c), c.Param("artist_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// ArtistAlbums returns the albums of one artist.
func (h *SpotifyHandler) ArtistAlbums(c echo.Context) error {
	raw, err := h.catalogUC.ArtistAlbums(c.Request().Context(), deliverycontext.GetSpotifyToken(c), c.Param("artist_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// SavedAlbums returns the albums in the caller's Spotify library.
func (h *SpotifyHandler) SavedAlbums(c echo.Context) error {
	raw, err := h.catalogUC.SavedAlbums(c.Request().Context(), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// Search looks up artists and albums by ?q=.
func (h *SpotifyHandler) Search(c echo.Context) error {
	query, limit, err := searchParams(c)
	if err != nil {
		return err
	}

	pages, err := h.catalogUC.Search(c.Request().Context(), deliverycontext.GetSpotifyToken(c), query, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, pages)
}

// SearchAlbums looks up albums by ?q=.
func (h *SpotifyHandler) SearchAlbums(c echo.Context) error {
	query, limit, err := searchParams(c)
	if err != nil {
		return err
	}

	raw, err := h.catalogUC.SearchAlbums(c.Request().Context(), deliverycontext.GetSpotifyToken(c), query, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// User returns a public Spotify profile.
func (h *SpotifyHandler) User(c echo.Context) error {
	raw, err := h.catalogUC.User(c.Request().Context(), deliverycontext.GetSpotifyToken(c), c.Param("spotify_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, raw)
}

// Album returns the album page: Spotify data plus local ratings, reviews and favorite state.
func (h *SpotifyHandler) Album(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	details, err := h.catalogUC.AlbumDetails(c.Request().Context(), deliverycontext.GetSpotifyToken(c), username, c.Param("album_id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newAlbumInfoResponse(details))
}

func searchParams(c echo.Context) (string, int, error) {
	query := c.QueryParam("q")
	if query == "" {
		return "", 0, domainerrors.ErrValidationFailed.WithDetails("q is required")
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return "", 0, err
	}

	return query, limit, nil
}
