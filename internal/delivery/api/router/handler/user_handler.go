package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	"groovesync/internal/domain/entity"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// UserHandler serves the account endpoints of the signed-in user.
type UserHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// UpdatePasswordRequest is the body of PUT /user/update-password.
type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// LinkSpotifyRequest is the body of PUT /user/spotify.
type LinkSpotifyRequest struct {
	SpotifyID string `json:"spotify_id" validate:"required"`
}

// ProfileResponse is the public view of an account. The password hash never leaves the service.
type ProfileResponse struct {
	Username  string    `json:"username"`
	SpotifyID string    `json:"spotify_id,omitempty"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"created_at"`
}

func newProfileResponse(user *entity.User) ProfileResponse {
	resp := ProfileResponse{
		Username:  user.Username,
		SpotifyID: user.SpotifyID,
		Followers: user.Followers,
		Following: user.Following,
		CreatedAt: user.CreatedAt,
	}
	if resp.Followers == nil {
		resp.Followers = []string{}
	}
	if resp.Following == nil {
		resp.Following = []string{}
	}

	return resp
}

// Me returns the profile of the signed-in user.
func (h *UserHandler) Me(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.accountUC.Profile(c.Request().Context(), username)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProfileResponse(user))
}

// Delete removes the account and revokes its session. Reviews, favorites and follows stay.
func (h *UserHandler) Delete(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.accountUC.DeleteAccount(c.Request().Context(), username); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "User '"+username+"' deleted successfully")
}

// UpdatePassword replaces the password after checking the current one.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.UpdatePassword(c.Request().Context(), username, &usecase.UpdatePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Password updated successfully")
}

// LinkSpotify attaches a Spotify account id to the signed-in user.
func (h *UserHandler) LinkSpotify(c echo.Context) error {
	username, err := currentUser(c)
	if err != nil {
		return err
	}

	var req LinkSpotifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.LinkSpotify(c.Request().Context(), username, req.SpotifyID); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Spotify account linked")
}
