// Package memory is an in-process implementation of the repositories with the same
// uniqueness and not-found rules as the MongoDB store. It backs tests and local runs.
package memory

import (
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
)

// Store holds every collection behind one lock.
type Store struct {
	mu sync.RWMutex

	users         map[string]*entity.User         // username -> user
	refreshTokens map[string]*entity.RefreshToken // username -> slot
	reviews       map[string]*entity.Review       // id -> review
	favorites     map[string]*entity.Favorite     // id -> favorite
	follows       map[string]*entity.Follow       // follower + "\x00" + followee -> follow

	now func() time.Time
}

// New creates an empty store using the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty store reading time from now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		refreshTokens: make(map[string]*entity.RefreshToken),
		reviews:       make(map[string]*entity.Review),
		favorites:     make(map[string]*entity.Favorite),
		follows:       make(map[string]*entity.Follow),
		now:           now,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{s: s} }

// RefreshTokens returns the refresh token repository view of the store.
func (s *Store) RefreshTokens() repository.RefreshTokenRepository {
	return &refreshTokenRepository{s: s}
}

// Reviews returns the review repository view of the store.
func (s *Store) Reviews() repository.ReviewRepository { return &reviewRepository{s: s} }

// Favorites returns the favorite repository view of the store.
func (s *Store) Favorites() repository.FavoriteRepository { return &favoriteRepository{s: s} }

// Follows returns the follow repository view of the store.
func (s *Store) Follows() repository.FollowRepository { return &followRepository{s: s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

// checkID mirrors the document store's id validation.
func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domainerrors.ErrInvalidID.WithDetails(id)
	}

	return nil
}

// sortNewestFirst orders by creation time, then id, both descending.
func sortNewestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}

		return id(items[i]) > id(items[j])
	})
}
