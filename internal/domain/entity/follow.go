package entity

import "time"

// Follow is a directed relationship: Follower follows Followee.
type Follow struct {
	ID        string
	Follower  string
	Followee  string
	CreatedAt time.Time
}
