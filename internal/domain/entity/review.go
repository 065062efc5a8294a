package entity

import "time"

// Rating bounds for a review.
const (
	MinRate = 0
	MaxRate = 5
)

// Review is a user's rating and text about one album.
type Review struct {
	ID        string
	Username  string
	AlbumID   string
	Rate      float64
	Text      string
	CreatedAt time.Time
}

// ValidRate reports whether rate is within the accepted bounds.
func ValidRate(rate float64) bool {
	return rate >= MinRate && rate <= MaxRate
}
