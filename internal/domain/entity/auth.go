package entity

import "time"

// ProviderType names an external identity provider.
type ProviderType string

// ProviderSpotify is the only identity provider the service talks to.
const ProviderSpotify ProviderType = "spotify"

// String returns the string representation of the ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// RefreshToken is the single stored session slot of a user. Token is either a
// locally signed JWT or, after Spotify login, the provider refresh token.
type RefreshToken struct {
	Username  string
	Token     string
	ExpiresAt time.Time
}

// IsExpired reports whether the record is past its expiry at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
