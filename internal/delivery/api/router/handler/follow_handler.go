package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	deliverycontext "groovesync/internal/delivery/context"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// FollowHandlerParams holds dependencies for FollowHandler, injected by Fx.
type FollowHandlerParams struct {
	fx.In

	FollowUC usecase.FollowUsecase
	Logger   *slog.Logger
}

// FollowHandler serves the follow graph.
type FollowHandler struct {
	followUC usecase.FollowUsecase
	logger   *slog.Logger
}

// NewFollowHandler is the constructor for FollowHandler
func NewFollowHandler(params FollowHandlerParams) *FollowHandler {
	return &FollowHandler{
		followUC: params.FollowUC,
		logger:   params.Logger,
	}
}

// FollowRequest is the body of POST /follow/add.
type FollowRequest struct {
	Username string `json:"username" validate:"required"`
}

// FollowIDResponse is returned on creation.
type FollowIDResponse struct {
	FollowID string `json:"follow_id"`
}

// FollowUserResponse is one entry of a following or followers list.
type FollowUserResponse struct {
	Username    string `json:"username"`
	SpotifyID   string `json:"spotify_id,omitempty"`
	DisplayName string `json:"display_name"`
	ImageURL    string `json:"image_url,omitempty"`
}

// FollowingResponse wraps the users someone follows.
type FollowingResponse struct {
	Following []FollowUserResponse `json:"following"`
}

// FollowersResponse wraps the users following someone.
type FollowersResponse struct {
	Followers []FollowUserResponse `json:"followers"`
}

func newFollowUsers(views []*usecase.FollowView) []FollowUserResponse {
	out := make([]FollowUserResponse, 0, len(views))
	for _, v := range views {
		out = append(out, FollowUserResponse{
			Username:    v.Username,
			SpotifyID:   v.SpotifyID,
			DisplayName: v.DisplayName,
			ImageURL:    v.ImageURL,
		})
	}

	return out
}

// Follow makes the signed-in user follow another user.
func (h *FollowHandler) Follow(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req FollowRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	follow, err := h.followUC.Follow(c.Request().Context(), username, req.Username)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, FollowIDResponse{FollowID: follow.ID})
}

// Unfollow drops the follow named by ?username=.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	followee := c.QueryParam("username")
	if followee == "" {
		return domainerrors.ErrValidationFailed.WithDetails("username is required")
	}

	if err := h.followUC.Unfollow(c.Request().Context(), username, followee); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Unfollowed "+followee)
}

// Following lists whom a user follows.
func (h *FollowHandler) Following(c echo.Context) error {
	views, err := h.followUC.Following(c.Request().Context(), c.Param("username"), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, FollowingResponse{Following: newFollowUsers(views)})
}

// Followers lists who follows a user.
func (h *FollowHandler) Followers(c echo.Context) error {
	views, err := h.followUC.Followers(c.Request().Context(), c.Param("username"), deliverycontext.GetSpotifyToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, FollowersResponse{Followers: newFollowUsers(views)})
}
