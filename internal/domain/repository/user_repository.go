// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"groovesync/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by its document id.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername retrieves a single user by username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByExternalID retrieves the user linked to a Spotify account.
	FindByExternalID(ctx context.Context, spotifyID string) (*entity.User, error)

	// Create persists a new user and fills in its ID and CreatedAt.
	// A taken username or Spotify id yields domainerrors.ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the password hash. Reports whether a user was matched.
	UpdatePassword(ctx context.Context, username, passwordHash string) (bool, error)

	// LinkExternalID attaches a Spotify id to the user. Reports whether a user was matched.
	LinkExternalID(ctx context.Context, username, spotifyID string) (bool, error)

	// Delete removes the user. Reports whether a user was removed.
	Delete(ctx context.Context, username string) (bool, error)
}
