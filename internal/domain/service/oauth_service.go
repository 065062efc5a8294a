package service

import (
	"context"
	"time"

	"groovesync/internal/domain/entity"
)

// OAuthUser represents user information from OAuth providers
type OAuthUser struct {
	ID          string              // Provider-specific user ID
	Email       string              // User's email address
	DisplayName string              // User's display name
	Provider    entity.ProviderType // The OAuth provider
	AvatarURL   string              // URL to user's profile picture
	ProfileURL  string              // URL to user's profile page
	Country     string              // Country code reported by the provider
}

// OAuthTokens is the result of an authorization code exchange.
type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	Expiry       time.Time
}

// OAuthService is the bridge to the external identity provider.
// Provider failures are returned as *domainerrors.UpstreamError carrying the provider text.
type OAuthService interface {
	// AuthorizationURL builds the consent page URL for the given state value.
	AuthorizationURL(state string) string

	// ExchangeCode trades an authorization code for provider tokens.
	ExchangeCode(ctx context.Context, code string) (*OAuthTokens, error)

	// FetchProfile reads the provider profile of the token owner.
	FetchProfile(ctx context.Context, accessToken string) (*OAuthUser, error)

	// Provider returns the OAuth provider type
	Provider() entity.ProviderType
}
