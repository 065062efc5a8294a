package repository

import (
	"context"
	"errors"

	"groovesync/internal/domain/entity"
)

// ErrFollowNotFound is returned when the relationship does not exist.
var ErrFollowNotFound = errors.New("follow not found")

// FollowRepository persists follow relationships. Follower and followee pair is unique.
type FollowRepository interface {
	// Create persists the relationship; an existing pair yields domainerrors.ErrAlreadyFollowing.
	Create(ctx context.Context, follow *entity.Follow) error

	// Delete removes the relationship.
	Delete(ctx context.Context, follower, followee string) error

	// ListFollowing returns the usernames the user follows.
	ListFollowing(ctx context.Context, username string) ([]string, error)

	// ListFollowers returns the usernames following the user.
	ListFollowers(ctx context.Context, username string) ([]string, error)
}
