package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"groovesync/internal/domain/entity"
)

// ReviewModel mirrors a document of the 'reviews' collection.
type ReviewModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	AlbumID   string             `bson:"album_id"`
	Rate      float64            `bson:"rate"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

// FromReviewDomain maps a domain review to its document.
func FromReviewDomain(r *entity.Review) *ReviewModel {
	return &ReviewModel{
		Username:  r.Username,
		AlbumID:   r.AlbumID,
		Rate:      r.Rate,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// ToDomain maps the document back to a domain review.
func (m *ReviewModel) ToDomain() *entity.Review {
	return &entity.Review{
		ID:        m.ID.Hex(),
		Username:  m.Username,
		AlbumID:   m.AlbumID,
		Rate:      m.Rate,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

// FavoriteModel mirrors a document of the 'favorites' collection.
type FavoriteModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	AlbumID   string             `bson:"album_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// FromFavoriteDomain maps a domain favorite to its document.
func FromFavoriteDomain(f *entity.Favorite) *FavoriteModel {
	return &FavoriteModel{
		Username:  f.Username,
		AlbumID:   f.AlbumID,
		CreatedAt: f.CreatedAt,
	}
}

// ToDomain maps the document back to a domain favorite.
func (m *FavoriteModel) ToDomain() *entity.Favorite {
	return &entity.Favorite{
		ID:        m.ID.Hex(),
		Username:  m.Username,
		AlbumID:   m.AlbumID,
		CreatedAt: m.CreatedAt,
	}
}

// FollowModel mirrors a document of the 'follows' collection.
type FollowModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Follower  string             `bson:"follower"`
	Followee  string             `bson:"followee"`
	CreatedAt time.Time          `bson:"created_at"`
}

// FromFollowDomain maps a domain follow to its document.
func FromFollowDomain(f *entity.Follow) *FollowModel {
	return &FollowModel{
		Follower:  f.Follower,
		Followee:  f.Followee,
		CreatedAt: f.CreatedAt,
	}
}

// ToDomain maps the document back to a domain follow.
func (m *FollowModel) ToDomain() *entity.Follow {
	return &entity.Follow{
		ID:        m.ID.Hex(),
		Follower:  m.Follower,
		Followee:  m.Followee,
		CreatedAt: m.CreatedAt,
	}
}
