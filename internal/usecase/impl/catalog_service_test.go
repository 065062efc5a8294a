package impl

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groovesync/internal/domain/entity"
	domainerrors "groovesync/internal/domain/errors"
	mockSvc "groovesync/internal/mocks/service"
	"groovesync/internal/usecase"
)

type catalogServiceFixtures struct {
	service usecase.CatalogUsecase
	catalog *mockSvc.MockCatalogService
}

func createTestCatalogService(t *testing.T) (catalogServiceFixtures, func(...*entity.User), func(*entity.Review)) {
	t.Helper()

	store, _ := newTestStore()
	catalog := mockSvc.NewMockCatalogService(t)
	ctx := context.Background()

	addUsers := func(users ...*entity.User) {
		for _, u := range users {
			require.NoError(t, store.Users().Create(ctx, u))
		}
	}
	addReview := func(r *entity.Review) {
		require.NoError(t, store.Reviews().Create(ctx, r))
	}

	fx := catalogServiceFixtures{
		service: NewCatalogService(CatalogServiceParams{
			Catalog:      catalog,
			UserRepo:     store.Users(),
			ReviewRepo:   store.Reviews(),
			FavoriteRepo: store.Favorites(),
			Logger:       newDiscardLogger(),
		}),
		catalog: catalog,
	}
	require.NoError(t, store.Favorites().Create(ctx, &entity.Favorite{Username: "alice", AlbumID: "album-1"}))

	return fx, addUsers, addReview
}

func TestCatalogService_Passthrough(t *testing.T) {
	fx, _, _ := createTestCatalogService(t)
	ctx := context.Background()
	raw := json.RawMessage(`{"items":[]}`)

	fx.catalog.EXPECT().RecentTracks(mock.Anything, "tok", 5).Return(raw, nil)
	fx.catalog.EXPECT().TopArtists(mock.Anything, "tok", "short_term", 5).Return(raw, nil)
	fx.catalog.EXPECT().Search(mock.Anything, "tok", "blue", []string{"artist", "album"}, 20).
		Return(map[string]json.RawMessage{"artists": raw, "albums": raw}, nil)
	fx.catalog.EXPECT().Search(mock.Anything, "tok", "blue", []string{"album"}, 10).
		Return(map[string]json.RawMessage{"albums": raw}, nil)

	got, err := fx.service.RecentTracks(ctx, "tok")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))

	_, err = fx.service.TopArtists(ctx, "tok")
	require.NoError(t, err)

	pages, err := fx.service.Search(ctx, "tok", "blue", 0)
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	albums, err := fx.service.SearchAlbums(ctx, "tok", "blue", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(albums))

	_, err = fx.service.Search(ctx, "tok", "", 0)
	assert.Equal(t, domainerrors.KindValidation, domainerrors.KindOf(err))
}

func TestCatalogService_AlbumDetails(t *testing.T) {
	fx, addUsers, addReview := createTestCatalogService(t)
	ctx := context.Background()

	addUsers(
		&entity.User{Username: "alice"},
		&entity.User{Username: "bob", SpotifyID: "sp-bob"},
		&entity.User{Username: "carol"},
	)
	addReview(&entity.Review{Username: "alice", AlbumID: "album-1", Rate: 4, Text: "mine"})
	addReview(&entity.Review{Username: "bob", AlbumID: "album-1", Rate: 3.5, Text: "ok"})
	addReview(&entity.Review{Username: "carol", AlbumID: "album-1", Rate: 5, Text: "wow"})
	addReview(&entity.Review{Username: "ghost", AlbumID: "album-1", Rate: 1, Text: "orphan"})

	album := &entity.Album{ID: "album-1", Name: "Blue"}
	fx.catalog.EXPECT().Album(mock.Anything, "tok", "album-1").Return(album, nil)
	fx.catalog.EXPECT().UserProfile(mock.Anything, "tok", "sp-bob").
		Return(&entity.SpotifyProfile{ID: "sp-bob", DisplayName: "Bobby", Images: []entity.Image{{URL: "pic"}}}, nil)

	details, err := fx.service.AlbumDetails(ctx, "tok", "alice", "album-1")
	require.NoError(t, err)

	assert.Same(t, album, details.Album)
	require.NotNil(t, details.OverallRating)
	// (4 + 3.5 + 5 + 1) / 4 = 3.375
	assert.InDelta(t, 3.4, *details.OverallRating, 0.0001)
	require.NotNil(t, details.YourRating)
	assert.InDelta(t, 4.0, *details.YourRating, 0.0001)
	assert.Equal(t, "mine", *details.YourReview)
	assert.True(t, details.IsFavorite)
	assert.NotEmpty(t, details.FavoriteID)

	byName := map[string]*usecase.AlbumReview{}
	for _, r := range details.Reviews {
		byName[r.Username] = r
	}
	require.Len(t, byName, 2, "the deleted author's review is not listed")
	assert.Equal(t, "Bobby", byName["bob"].DisplayName)
	assert.Equal(t, "pic", byName["bob"].ProfilePicture)
	assert.Equal(t, "carol", byName["carol"].DisplayName)
}

func TestCatalogService_AlbumDetails_NoReviews(t *testing.T) {
	fx, _, _ := createTestCatalogService(t)

	fx.catalog.EXPECT().Album(mock.Anything, "tok", "album-2").Return(&entity.Album{ID: "album-2"}, nil)

	details, err := fx.service.AlbumDetails(context.Background(), "tok", "alice", "album-2")
	require.NoError(t, err)
	assert.Nil(t, details.OverallRating)
	assert.Nil(t, details.YourRating)
	assert.Empty(t, details.Reviews)
	assert.False(t, details.IsFavorite)
}

func TestCatalogService_AlbumDetails_UpstreamError(t *testing.T) {
	fx, _, _ := createTestCatalogService(t)

	fx.catalog.EXPECT().Album(mock.Anything, "tok", "nope").
		Return(nil, domainerrors.NewUpstreamError("album", 404, "not found"))

	_, err := fx.service.AlbumDetails(context.Background(), "tok", "alice", "nope")
	assert.Equal(t, domainerrors.KindUpstream, domainerrors.KindOf(err))
}
