// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"groovesync/internal/delivery/api/response"
	"groovesync/internal/domain/service"
	"groovesync/internal/errors"
	"groovesync/internal/usecase"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves the session lifecycle endpoints.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the body of refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SpotifyLoginRequest carries the authorization code from the Spotify redirect.
type SpotifyLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// TokenPairResponse is returned by register and login.
type TokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AccessTokenResponse is returned by refresh.
type AccessTokenResponse struct {
	Token string `json:"token"`
}

// SpotifyURLResponse is the consent page to send the user to.
type SpotifyURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// SpotifyUserInfo echoes the Spotify profile back to the client.
type SpotifyUserInfo struct {
	Username    string `json:"username"`
	SpotifyID   string `json:"spotify_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ProfileURL  string `json:"profile_url,omitempty"`
	Country     string `json:"country,omitempty"`
}

// SpotifyLoginResponse is returned by the Spotify login.
type SpotifyLoginResponse struct {
	BackendToken       string           `json:"backend_token"`
	SpotifyAccessToken string           `json:"spotify_access_token"`
	UserInfo           *SpotifyUserInfo `json:"user_info"`
}

// Register creates a local account and opens a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authUC.Register(c.Request().Context(), &usecase.CredentialsInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, TokenPairResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login opens a session for a local account.
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authUC.Login(c.Request().Context(), &usecase.CredentialsInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, TokenPairResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh trades the stored refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, AccessTokenResponse{Token: token})
}

// Logout revokes the refresh token. Unknown tokens are accepted silently.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authUC.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return errors.WithStack(err)
	}

	return response.Message(c, "Logged out")
}

// SpotifyURL returns the Spotify consent page with a fresh state value.
func (h *AuthHandler) SpotifyURL(c echo.Context) error {
	state := uuid.NewString()

	return response.Success(c, http.StatusOK, SpotifyURLResponse{
		URL:   h.authUC.SpotifyAuthorizationURL(state),
		State: state,
	})
}

// SpotifyLogin completes the Spotify authorization code flow.
func (h *AuthHandler) SpotifyLogin(c echo.Context) error {
	var req SpotifyLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.LoginWithSpotify(c.Request().Context(), req.Code)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, SpotifyLoginResponse{
		BackendToken:       out.AccessToken,
		SpotifyAccessToken: out.SpotifyAccessToken,
		UserInfo:           newSpotifyUserInfo(out.User.Username, out.Profile),
	})
}

func newSpotifyUserInfo(username string, profile *service.OAuthUser) *SpotifyUserInfo {
	info := &SpotifyUserInfo{Username: username}
	if profile == nil {
		return info
	}

	info.SpotifyID = profile.ID
	info.DisplayName = profile.DisplayName
	info.Email = profile.Email
	info.AvatarURL = profile.AvatarURL
	info.ProfileURL = profile.ProfileURL
	info.Country = profile.Country

	return info
}
