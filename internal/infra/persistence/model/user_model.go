// Package model holds the document shapes stored in MongoDB and their mapping to domain entities.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"groovesync/internal/domain/entity"
)

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionRefreshTokens = "refresh_tokens"
	CollectionReviews       = "reviews"
	CollectionFavorites     = "favorites"
	CollectionFollows       = "follows"
)

// UserModel mirrors a document of the 'users' collection.
// spotify_id is omitted when unlinked so the partial unique index ignores it.
type UserModel struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password,omitempty"`
	SpotifyID    string             `bson:"spotify_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// FromUserDomain maps a domain user to its document. The id is left for the store to assign.
func FromUserDomain(u *entity.User) *UserModel {
	return &UserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		SpotifyID:    u.SpotifyID,
		CreatedAt:    u.CreatedAt,
	}
}

// ToDomain maps the document back to a domain user.
func (m *UserModel) ToDomain() *entity.User {
	return &entity.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		SpotifyID:    m.SpotifyID,
		CreatedAt:    m.CreatedAt,
	}
}
