package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the custom claims for the JWT tokens. The subject is the username.
type Claims struct {
	Username string `json:"username"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken signs a short-lived access token for username.
	GenerateAccessToken(username string) (string, error)

	// GenerateRefreshToken signs a long-lived refresh token for username.
	GenerateRefreshToken(username string) (string, error)

	// ValidateAccessToken checks signature, expiry and type of an access token.
	// Returns domainerrors.ErrTokenExpired or domainerrors.ErrTokenInvalid on failure.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ParseRefreshToken checks the signature and type of a refresh token.
	ParseRefreshToken(tokenString string) (*Claims, error)

	// AccessTokenTTL returns the configured lifetime of access tokens.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured lifetime of refresh tokens.
	RefreshTokenTTL() time.Duration
}
