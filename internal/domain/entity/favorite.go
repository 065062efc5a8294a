package entity

import "time"

// Favorite marks an album as favorited by a user. A user favorites an album at most once.
type Favorite struct {
	ID        string
	Username  string
	AlbumID   string
	CreatedAt time.Time
}
