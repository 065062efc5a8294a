package memory

import (
	"context"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/repository"
)

type refreshTokenRepository struct {
	s *Store
}

func (r *refreshTokenRepository) Store(_ context.Context, token *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *token
	r.s.refreshTokens[token.Username] = &c

	return nil
}

func (r *refreshTokenRepository) FindValid(ctx context.Context, token string) (*entity.RefreshToken, error) {
	if _, err := r.DeleteExpired(ctx); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.refreshTokens {
		if t.Token == token {
			c := *t
			return &c, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *refreshTokenRepository) Delete(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for username, t := range r.s.refreshTokens {
		if t.Token == token {
			delete(r.s.refreshTokens, username)
		}
	}

	return nil
}

func (r *refreshTokenRepository) InvalidateAll(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.refreshTokens, username)

	return nil
}

func (r *refreshTokenRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	var n int64
	for username, t := range r.s.refreshTokens {
		if t.IsExpired(now) {
			delete(r.s.refreshTokens, username)
			n++
		}
	}

	return n, nil
}
