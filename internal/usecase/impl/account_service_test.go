package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	"groovesync/internal/domain/service"
	"groovesync/internal/infra/auth"
	"groovesync/internal/infra/persistence/memory"
	"groovesync/internal/usecase"
)

type accountServiceFixtures struct {
	service usecase.AccountUsecase
	store   *memory.Store
	hasher  service.PasswordHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	store, _ := newTestStore()
	hasher := auth.NewBcryptHasher(newTestConfig())

	return accountServiceFixtures{
		service: NewAccountService(AccountServiceParams{
			UserRepo:         store.Users(),
			RefreshTokenRepo: store.RefreshTokens(),
			FollowRepo:       store.Follows(),
			Hasher:           hasher,
			Logger:           newDiscardLogger(),
		}),
		store:  store,
		hasher: hasher,
	}
}

func (f accountServiceFixtures) seedUser(t *testing.T, username, password string) {
	t.Helper()

	user := &entity.User{Username: username}
	if password != "" {
		hash, err := f.hasher.Hash(password)
		require.NoError(t, err)
		user.PasswordHash = hash
	}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
}

func TestAccountService_Profile_MaterialisesFollows(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.seedUser(t, "alice", "pw")
	fx.seedUser(t, "bob", "pw")
	fx.seedUser(t, "carol", "pw")
	require.NoError(t, fx.store.Follows().Create(ctx, &entity.Follow{Follower: "alice", Followee: "bob"}))
	require.NoError(t, fx.store.Follows().Create(ctx, &entity.Follow{Follower: "carol", Followee: "alice"}))

	user, err := fx.service.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, user.Following)
	assert.Equal(t, []string{"carol"}, user.Followers)

	_, err = fx.service.Profile(ctx, "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	fx.seedUser(t, "alice", "pw")
	require.NoError(t, fx.store.RefreshTokens().Store(ctx, &entity.RefreshToken{
		Username:  "alice",
		Token:     "rt",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	review := &entity.Review{Username: "alice", AlbumID: "album", Rate: 4}
	require.NoError(t, fx.store.Reviews().Create(ctx, review))

	require.NoError(t, fx.service.DeleteAccount(ctx, "alice"))

	_, err := fx.store.Users().FindByUsername(ctx, "alice")
	assert.Error(t, err)
	_, err = fx.store.RefreshTokens().FindValid(ctx, "rt")
	assert.Error(t, err)

	// Social data stays behind.
	_, err = fx.store.Reviews().FindByID(ctx, review.ID)
	assert.NoError(t, err)

	err = fx.service.DeleteAccount(ctx, "alice")
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
}

func TestAccountService_UpdatePassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.seedUser(t, "alice", "old")

	err := fx.service.UpdatePassword(ctx, "alice", &usecase.UpdatePasswordInput{OldPassword: "wrong", NewPassword: "new"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = fx.service.UpdatePassword(ctx, "alice", &usecase.UpdatePasswordInput{OldPassword: "old"})
	assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))

	require.NoError(t, fx.service.UpdatePassword(ctx, "alice", &usecase.UpdatePasswordInput{OldPassword: "old", NewPassword: "new"}))

	user, err := fx.store.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, fx.hasher.Check("new", user.PasswordHash))
	assert.False(t, fx.hasher.Check("old", user.PasswordHash))
}

func TestAccountService_LinkSpotify(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()
	fx.seedUser(t, "alice", "pw")
	fx.seedUser(t, "bob", "pw")

	require.NoError(t, fx.service.LinkSpotify(ctx, "alice", "sp-1"))
	// Linking the same account again is a no-op.
	require.NoError(t, fx.service.LinkSpotify(ctx, "alice", "sp-1"))

	user, err := fx.store.Users().FindByExternalID(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	err = fx.service.LinkSpotify(ctx, "bob", "sp-1")
	assert.ErrorIs(t, err, domainerrors.ErrSpotifyAccountLinked)
	assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))

	err = fx.service.LinkSpotify(ctx, "nobody", "sp-2")
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
}
