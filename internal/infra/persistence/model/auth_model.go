package model

import (
	"time"

	"groovesync/internal/domain/entity"
)

// RefreshTokenModel mirrors a document of the 'refresh_tokens' collection. One per username.
type RefreshTokenModel struct {
	Username  string    `bson:"username"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// FromRefreshTokenDomain maps a domain refresh token to its document.
func FromRefreshTokenDomain(t *entity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		Username:  t.Username,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt.UTC(),
	}
}

// ToDomain maps the document back to a domain refresh token.
func (m *RefreshTokenModel) ToDomain() *entity.RefreshToken {
	return &entity.RefreshToken{
		Username:  m.Username,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
	}
}
