package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "groovesync/internal/delivery/context"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/service"
)

// HeaderSpotifyToken carries the caller's Spotify access token.
const HeaderSpotifyToken = "Spotify-Token"

const bearerPrefix = "Bearer "

// AuthMiddleware is the request gate in front of every authenticated route.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authorize checks an Authorization header value and returns the verified claims.
func (m *AuthMiddleware) Authorize(header string) (*service.Claims, error) {
	tokenString, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(tokenString) == "" {
		return nil, domainerrors.ErrMissingAuthHeader
	}

	// ValidateAccessToken already reports ErrTokenExpired or ErrTokenInvalid.
	claims, err := m.tokenSvc.ValidateAccessToken(strings.TrimSpace(tokenString))
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// Authenticate rejects requests without a valid access token and exposes the username to handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		deliverycontext.SetUsername(c, claims.Subject)

		return next(c)
	}
}

// RequireSpotifyToken rejects requests without a Spotify-Token header.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireSpotifyToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimSpace(c.Request().Header.Get(HeaderSpotifyToken))
		if token == "" {
			return domainerrors.ErrSpotifyTokenMissing
		}
		deliverycontext.SetSpotifyToken(c, token)

		return next(c)
	}
}

// OptionalSpotifyToken passes a Spotify-Token header along when present.
func (m *AuthMiddleware) OptionalSpotifyToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := strings.TrimSpace(c.Request().Header.Get(HeaderSpotifyToken)); token != "" {
			deliverycontext.SetSpotifyToken(c, token)
		}

		return next(c)
	}
}
