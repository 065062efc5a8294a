// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a GrooveSync account. Local accounts carry a password hash,
// accounts created through Spotify login carry a SpotifyID and no password.
type User struct {
	ID           string    // Document id, hex encoded.
	Username     string    // Unique login name.
	PasswordHash string    // bcrypt hash; empty for Spotify-only accounts.
	SpotifyID    string    // Linked Spotify user id, empty when not linked.
	Followers    []string  // Usernames following this user, materialised from follows.
	Following    []string  // Usernames this user follows, materialised from follows.
	CreatedAt    time.Time // Timestamp of when this account was created.
}

// HasPassword reports whether the account can log in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
