package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	mockSvc "groovesync/internal/mocks/service"
	"groovesync/internal/usecase"
)

func ptr[T any](v T) *T { return &v }

func TestReviewService(t *testing.T) {
	store, clock := newTestStore()
	srv := NewReviewService(ReviewServiceParams{ReviewRepo: store.Reviews(), Logger: newDiscardLogger()})
	ctx := context.Background()

	first, err := srv.Save(ctx, "alice", &usecase.SaveReviewInput{AlbumID: "album-1", Rate: 4.5, Text: "great"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := srv.Save(ctx, "alice", &usecase.SaveReviewInput{AlbumID: "album-2", Rate: 2})
	require.NoError(t, err)

	t.Run("rate out of range", func(t *testing.T) {
		for _, rate := range []float64{-0.5, 5.1} {
			_, err := srv.Save(ctx, "alice", &usecase.SaveReviewInput{AlbumID: "album-1", Rate: rate})
			assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err), "rate %v", rate)
		}
	})

	t.Run("list by user defaults to one, newest first", func(t *testing.T) {
		reviews, err := srv.ListByUser(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, second.ID, reviews[0].ID)

		reviews, err = srv.ListByUser(ctx, "alice", 10)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("update by author only", func(t *testing.T) {
		err := srv.Update(ctx, "bob", first.ID, &usecase.UpdateReviewInput{Rate: ptr(1.0)})
		assert.Equal(t, domainerrors.KindForbidden, domainerrors.KindOf(err))

		err = srv.Update(ctx, "alice", first.ID, &usecase.UpdateReviewInput{Rate: ptr(6.0)})
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))

		require.NoError(t, srv.Update(ctx, "alice", first.ID, &usecase.UpdateReviewInput{Text: ptr("still great")}))
		reviews, err := srv.ListByAlbum(ctx, "album-1")
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, "still great", reviews[0].Text)
		assert.InDelta(t, 4.5, reviews[0].Rate, 0.0001)
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		err := srv.Delete(ctx, "alice", "000000000000000000000000")
		assert.ErrorIs(t, err, domainerrors.ErrReviewNotFound)

		err = srv.Delete(ctx, "alice", "not-an-id")
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, srv.Delete(ctx, "alice", second.ID))
		err := srv.Delete(ctx, "alice", second.ID)
		assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
	})
}

func TestFavoriteService(t *testing.T) {
	store, _ := newTestStore()
	catalog := mockSvc.NewMockCatalogService(t)
	srv := NewFavoriteService(FavoriteServiceParams{
		FavoriteRepo: store.Favorites(),
		Catalog:      catalog,
		Logger:       newDiscardLogger(),
	})
	ctx := context.Background()

	favorite, err := srv.Save(ctx, "alice", "album-1")
	require.NoError(t, err)

	_, err = srv.Save(ctx, "alice", "album-1")
	assert.ErrorIs(t, err, domainerrors.ErrFavoriteExists)

	ok, id, err := srv.IsFavorite(ctx, "alice", "album-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, favorite.ID, id)

	ok, _, err = srv.IsFavorite(ctx, "bob", "album-1")
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("list without spotify token", func(t *testing.T) {
		views, err := srv.ListByUser(ctx, "alice", "")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Nil(t, views[0].Album)
	})

	t.Run("list enriched", func(t *testing.T) {
		album := &entity.Album{ID: "album-1", Name: "Blue", ReleaseDate: "1971-06-22"}
		catalog.EXPECT().Album(mock.Anything, "sp-token", "album-1").Return(album, nil).Once()

		views, err := srv.ListByUser(ctx, "alice", "sp-token")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Blue", views[0].Album.Name)
	})

	t.Run("enrichment failure surfaces", func(t *testing.T) {
		catalog.EXPECT().Album(mock.Anything, "bad-token", "album-1").
			Return(nil, domainerrors.NewUpstreamError("album", 401, "expired")).Once()

		_, err := srv.ListByUser(ctx, "alice", "bad-token")
		assert.Equal(t, domainerrors.KindUpstream, domainerrors.KindOf(err))
	})

	t.Run("delete by owner only", func(t *testing.T) {
		err := srv.Delete(ctx, "bob", favorite.ID)
		assert.Equal(t, domainerrors.KindForbidden, domainerrors.KindOf(err))

		require.NoError(t, srv.Delete(ctx, "alice", favorite.ID))

		err = srv.Delete(ctx, "alice", favorite.ID)
		assert.ErrorIs(t, err, domainerrors.ErrFavoriteNotFound)
	})
}

func TestFollowService(t *testing.T) {
	store, clock := newTestStore()
	catalog := mockSvc.NewMockCatalogService(t)
	srv := NewFollowService(FollowServiceParams{
		FollowRepo: store.Follows(),
		UserRepo:   store.Users(),
		Catalog:    catalog,
		Logger:     newDiscardLogger(),
	})
	ctx := context.Background()

	for _, u := range []*entity.User{
		{Username: "alice"},
		{Username: "bob", SpotifyID: "sp-bob"},
		{Username: "carol"},
	} {
		require.NoError(t, store.Users().Create(ctx, u))
	}

	_, err := srv.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = srv.Follow(ctx, "alice", "carol")
	require.NoError(t, err)

	t.Run("rules", func(t *testing.T) {
		_, err := srv.Follow(ctx, "alice", "alice")
		assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))

		_, err = srv.Follow(ctx, "alice", "ghost")
		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

		_, err = srv.Follow(ctx, "alice", "bob")
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyFollowing)
		assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))
	})

	t.Run("following without token", func(t *testing.T) {
		views, err := srv.Following(ctx, "alice", "")
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "bob", views[0].Username)
		assert.Equal(t, "sp-bob", views[0].SpotifyID)
		assert.Equal(t, "bob", views[0].DisplayName)
		assert.Equal(t, "carol", views[1].Username)
	})

	t.Run("following enriched for linked users", func(t *testing.T) {
		catalog.EXPECT().UserProfile(mock.Anything, "sp-token", "sp-bob").Return(&entity.SpotifyProfile{
			ID:          "sp-bob",
			DisplayName: "Bobby",
			Images:      []entity.Image{{URL: "https://img/bob.png"}},
		}, nil).Once()

		views, err := srv.Following(ctx, "alice", "sp-token")
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "Bobby", views[0].DisplayName)
		assert.Equal(t, "https://img/bob.png", views[0].ImageURL)
		assert.Equal(t, "carol", views[1].DisplayName)
	})

	t.Run("followers", func(t *testing.T) {
		views, err := srv.Followers(ctx, "bob", "")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "alice", views[0].Username)
	})

	t.Run("unfollow", func(t *testing.T) {
		require.NoError(t, srv.Unfollow(ctx, "alice", "carol"))

		err := srv.Unfollow(ctx, "alice", "carol")
		assert.ErrorIs(t, err, domainerrors.ErrFollowNotFound)
	})

	t.Run("deleted users stay listed by name", func(t *testing.T) {
		_, err := store.Users().Delete(ctx, "bob")
		require.NoError(t, err)

		views, err := srv.Following(ctx, "alice", "sp-token")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "bob", views[0].Username)
		assert.Empty(t, views[0].SpotifyID)
	})
}

func TestTokenSweeper_Sweep(t *testing.T) {
	store, clock := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.RefreshTokens().Store(ctx, &entity.RefreshToken{
		Username: "alice", Token: "a", ExpiresAt: clock.Now().Add(time.Hour),
	}))
	require.NoError(t, store.RefreshTokens().Store(ctx, &entity.RefreshToken{
		Username: "bob", Token: "b", ExpiresAt: clock.Now().Add(3 * time.Hour),
	}))

	sweeper := &TokenSweeper{refreshTokenRepo: store.RefreshTokens(), logger: newDiscardLogger()}

	clock.Advance(2 * time.Hour)
	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.RefreshTokens().FindValid(ctx, "b")
	assert.NoError(t, err)
}
