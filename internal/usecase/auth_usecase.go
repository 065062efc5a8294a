// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/service"
)

// --- Input DTOs ---

// CredentialsInput carries a local username and password.
type CredentialsInput struct {
	Username string
	Password string
}

// --- Output DTOs ---

// TokenPair is returned by login and register.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SpotifyLoginOutput is returned by a successful Spotify login.
type SpotifyLoginOutput struct {
	AccessToken        string // Local access token.
	SpotifyAccessToken string // Provider access token, handed back to the client.
	User               *entity.User
	Profile            *service.OAuthUser
}

// AuthUsecase is the session issuer: it turns credentials or an OAuth code into tokens.
type AuthUsecase interface {
	Register(ctx context.Context, input *CredentialsInput) (*TokenPair, error)
	Login(ctx context.Context, input *CredentialsInput) (*TokenPair, error)

	// Refresh mints a new access token. The refresh token is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// SpotifyAuthorizationURL returns the consent page URL for state.
	SpotifyAuthorizationURL(state string) string
	LoginWithSpotify(ctx context.Context, code string) (*SpotifyLoginOutput, error)

	// Logout drops the stored refresh token. Unknown tokens are not an error.
	Logout(ctx context.Context, refreshToken string) error
}
