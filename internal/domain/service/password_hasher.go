// Package service declares the collaborators the use cases depend on:
// hashing, tokens, the Spotify bridges, rate limiting and event counting.
package service

// PasswordHasher turns local passwords into stored hashes and verifies them.
type PasswordHasher interface {
	// Hash returns a salted hash of password. Inputs the algorithm cannot take
	// (bcrypt stops at 72 bytes) are reported as an error, never truncated.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. An empty hash, as stored for
	// Spotify-only accounts, matches nothing.
	Check(password, hash string) bool
}
