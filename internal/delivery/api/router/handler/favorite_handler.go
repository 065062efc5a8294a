package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// FavoriteHandlerParams holds dependencies for FavoriteHandler, injected by Fx.
type FavoriteHandlerParams struct {
	fx.In

	FavoriteUC usecase.FavoriteUsecase
	Logger     *slog.Logger
}

// FavoriteHandler serves favorite albums.
type FavoriteHandler struct {
	favoriteUC usecase.FavoriteUsecase
	logger     *slog.Logger
}

// NewFavoriteHandler is the constructor for FavoriteHandler
func NewFavoriteHandler(params FavoriteHandlerParams) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUC: params.FavoriteUC,
		logger:     params.Logger,
	}
}

// SaveFavoriteRequest is the body of POST /favorite/save.
type SaveFavoriteRequest struct {
	AlbumID string `json:"album_id" validate:"required"`
}

// FavoriteIDResponse is returned on creation.
type FavoriteIDResponse struct {
	FavoriteID string `json:"favorite_id"`
}

// FavoriteResponse is one favorite, with album fields when a Spotify token was sent.
type FavoriteResponse struct {
	FavoriteID  string          `json:"favorite_id"`
	AlbumID     string          `json:"album_id"`
	CreatedAt   time.Time       `json:"created_at"`
	AlbumName   string          `json:"album_name,omitempty"`
	AlbumURL    string          `json:"album_url,omitempty"`
	AlbumImage  string          `json:"album_image,omitempty"`
	ReleaseYear string          `json:"release_year,omitempty"`
	Artists     []ArtistSummary `json:"artists,omitempty"`
}

// FavoriteListResponse wraps a list of favorites.
type FavoriteListResponse struct {
	Favorites []FavoriteResponse `json:"favorites"`
}

func newFavoriteListResponse(views []*usecase.FavoriteView) FavoriteListResponse {
	out := FavoriteListResponse{Favorites: make([]FavoriteResponse, 0, len(views))}
	for _, v := range views {
		item := FavoriteResponse{
			FavoriteID: v.Favorite.ID,
			AlbumID:    v.Favorite.AlbumID,
			CreatedAt:  v.Favorite.CreatedAt,
		}
		if v.Album != nil {
			item.AlbumName = v.Album.Name
			item.AlbumURL = v.Album.SpotifyURL()
			item.AlbumImage = v.Album.ImageURL()
			item.ReleaseYear = v.Album.ReleaseYear()
			item.Artists = newArtistSummaries(v.Album.Artists)
		}
		out.Favorites = append(out.Favorites, item)
	}

	return out
}

// Save marks an album as a favorite of the signed-in user.
func (h *FavoriteHandler) Save(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req SaveFavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	favorite, err := h.favoriteUC.Save(c.Request().Context(), username, req.AlbumID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, FavoriteIDResponse{FavoriteID: favorite.ID})
}

// ListByUser returns the favorites of a user, enriched when a Spotify-Token header is present.
func (h *FavoriteHandler) ListByUser(c echo.Context) error {
	views, err := h.favoriteUC.ListByUser(c.Request().Context(), c.Param("username"), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newFavoriteListResponse(views))
}

// Delete removes one of the caller's favorites.
func (h *FavoriteHandler) Delete(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.favoriteUC.Delete(c.Request().Context(), username, c.Param("favorite_id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Favorite deleted")
}
