package memory

import (
	"context"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.users[username]; ok {
		return copyUser(u), nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByExternalID(_ context.Context, spotifyID string) (*entity.User, error) {
	if spotifyID == "" {
		return nil, repository.ErrUserNotFound
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u := r.bySpotifyID(spotifyID); u != nil {
		return copyUser(u), nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.Username]; exists {
		return domainerrors.ErrUserAlreadyExists.WrapMessage(user.Username)
	}
	if user.SpotifyID != "" && r.bySpotifyID(user.SpotifyID) != nil {
		return domainerrors.ErrUserAlreadyExists.WrapMessage(user.SpotifyID)
	}

	user.ID = newID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.now().UTC()
	}
	stored := copyUser(user)
	stored.Followers, stored.Following = nil, nil
	r.s.users[user.Username] = stored

	return nil
}

func (r *userRepository) UpdatePassword(_ context.Context, username, passwordHash string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return false, nil
	}
	u.PasswordHash = passwordHash

	return true, nil
}

func (r *userRepository) LinkExternalID(_ context.Context, username, spotifyID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[username]
	if !ok {
		return false, nil
	}
	if other := r.bySpotifyID(spotifyID); other != nil && other.Username != username {
		return false, domainerrors.ErrSpotifyAccountLinked.WrapMessage(spotifyID)
	}
	u.SpotifyID = spotifyID

	return true, nil
}

func (r *userRepository) Delete(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[username]; !ok {
		return false, nil
	}
	delete(r.s.users, username)

	return true, nil
}

// bySpotifyID expects the caller to hold the lock.
func (r *userRepository) bySpotifyID(spotifyID string) *entity.User {
	for _, u := range r.s.users {
		if u.SpotifyID == spotifyID {
			return u
		}
	}

	return nil
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}
