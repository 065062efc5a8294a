package memory

import (
	"context"
	"time"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/repository"
)

type reviewRepository struct {
	s *Store
}

func (r *reviewRepository) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	review.ID = newID()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = r.s.now().UTC()
	}
	c := *review
	r.s.reviews[review.ID] = &c

	return nil
}

func (r *reviewRepository) FindByID(_ context.Context, id string) (*entity.Review, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	c := *rv

	return &c, nil
}

func (r *reviewRepository) ListByUser(_ context.Context, username string, limit int) ([]*entity.Review, error) {
	out := r.filter(func(rv *entity.Review) bool { return rv.Username == username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *reviewRepository) ListByAlbum(_ context.Context, albumID string) ([]*entity.Review, error) {
	return r.filter(func(rv *entity.Review) bool { return rv.AlbumID == albumID }), nil
}

func (r *reviewRepository) Update(_ context.Context, id string, upd repository.ReviewUpdate) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	if upd.Rate != nil {
		rv.Rate = *upd.Rate
	}
	if upd.Text != nil {
		rv.Text = *upd.Text
	}

	return nil
}

func (r *reviewRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(r.s.reviews, id)

	return nil
}

func (r *reviewRepository) filter(keep func(*entity.Review) bool) []*entity.Review {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Review, 0)
	for _, rv := range r.s.reviews {
		if keep(rv) {
			c := *rv
			out = append(out, &c)
		}
	}
	sortNewestFirst(out,
		func(rv *entity.Review) time.Time { return rv.CreatedAt },
		func(rv *entity.Review) string { return rv.ID })

	return out
}

type favoriteRepository struct {
	s *Store
}

func (r *favoriteRepository) Create(_ context.Context, favorite *entity.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, f := range r.s.favorites {
		if f.Username == favorite.Username && f.AlbumID == favorite.AlbumID {
			return domainerrors.ErrFavoriteExists.WrapMessage(favorite.AlbumID)
		}
	}

	favorite.ID = newID()
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = r.s.now().UTC()
	}
	c := *favorite
	r.s.favorites[favorite.ID] = &c

	return nil
}

func (r *favoriteRepository) FindByID(_ context.Context, id string) (*entity.Favorite, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.favorites[id]
	if !ok {
		return nil, repository.ErrFavoriteNotFound
	}
	c := *f

	return &c, nil
}

func (r *favoriteRepository) FindByUserAndAlbum(_ context.Context, username, albumID string) (*entity.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.favorites {
		if f.Username == username && f.AlbumID == albumID {
			c := *f
			return &c, nil
		}
	}

	return nil, repository.ErrFavoriteNotFound
}

func (r *favoriteRepository) ListByUser(_ context.Context, username string) ([]*entity.Favorite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Favorite, 0)
	for _, f := range r.s.favorites {
		if f.Username == username {
			c := *f
			out = append(out, &c)
		}
	}
	sortNewestFirst(out,
		func(f *entity.Favorite) time.Time { return f.CreatedAt },
		func(f *entity.Favorite) string { return f.ID })

	return out, nil
}

func (r *favoriteRepository) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.favorites[id]; !ok {
		return repository.ErrFavoriteNotFound
	}
	delete(r.s.favorites, id)

	return nil
}

type followRepository struct {
	s *Store
}

func followKey(follower, followee string) string {
	return follower + "\x00" + followee
}

func (r *followRepository) Create(_ context.Context, follow *entity.Follow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey(follow.Follower, follow.Followee)
	if _, exists := r.s.follows[key]; exists {
		return domainerrors.ErrAlreadyFollowing.WrapMessage(follow.Followee)
	}

	follow.ID = newID()
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = r.s.now().UTC()
	}
	c := *follow
	r.s.follows[key] = &c

	return nil
}

func (r *followRepository) Delete(_ context.Context, follower, followee string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey(follower, followee)
	if _, ok := r.s.follows[key]; !ok {
		return repository.ErrFollowNotFound
	}
	delete(r.s.follows, key)

	return nil
}

func (r *followRepository) ListFollowing(_ context.Context, username string) ([]string, error) {
	return r.names(func(f *entity.Follow) (string, bool) { return f.Followee, f.Follower == username }), nil
}

func (r *followRepository) ListFollowers(_ context.Context, username string) ([]string, error) {
	return r.names(func(f *entity.Follow) (string, bool) { return f.Follower, f.Followee == username }), nil
}

// names returns matches in creation order.
func (r *followRepository) names(pick func(*entity.Follow) (string, bool)) []string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*entity.Follow, 0)
	for _, f := range r.s.follows {
		if _, ok := pick(f); ok {
			matched = append(matched, f)
		}
	}
	sortNewestFirst(matched,
		func(f *entity.Follow) time.Time { return f.CreatedAt },
		func(f *entity.Follow) string { return f.ID })

	out := make([]string, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		name, _ := pick(matched[i])
		out = append(out, name)
	}

	return out
}
