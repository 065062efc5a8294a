package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"groovesync/internal/domain/entity"
	"groovesync/internal/domain/service"
)

// MockCatalogService is a mock of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

var _ service.CatalogService = (*MockCatalogService)(nil)

// MockCatalogService_Expecter offers typed expectation helpers.
type MockCatalogService_Expecter struct {
	mock *mock.Mock
}

// NewMockCatalogService creates a mock whose expectations are asserted on test cleanup.
func NewMockCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogService {
	m := &MockCatalogService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockCatalogService) EXPECT() *MockCatalogService_Expecter {
	return &MockCatalogService_Expecter{mock: &_m.Mock}
}

func rawResult(ret mock.Arguments) (json.RawMessage, error) {
	var raw json.RawMessage
	if v := ret.Get(0); v != nil {
		raw = v.(json.RawMessage)
	}

	return raw, ret.Error(1)
}

func (_m *MockCatalogService) RecentTracks(ctx context.Context, spotifyToken string, limit int) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken, limit))
}

func (_e *MockCatalogService_Expecter) RecentTracks(ctx, spotifyToken, limit interface{}) *mock.Call {
	return _e.mock.On("RecentTracks", ctx, spotifyToken, limit)
}

func (_m *MockCatalogService) CurrentlyPlaying(ctx context.Context, spotifyToken string) (json.RawMessage, bool, error) {
	ret := _m.Called(ctx, spotifyToken)

	var raw json.RawMessage
	if v := ret.Get(0); v != nil {
		raw = v.(json.RawMessage)
	}

	return raw, ret.Bool(1), ret.Error(2)
}

func (_e *MockCatalogService_Expecter) CurrentlyPlaying(ctx, spotifyToken interface{}) *mock.Call {
	return _e.mock.On("CurrentlyPlaying", ctx, spotifyToken)
}

func (_m *MockCatalogService) TopArtists(ctx context.Context, spotifyToken, timeRange string, limit int) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken, timeRange, limit))
}

func (_e *MockCatalogService_Expecter) TopArtists(ctx, spotifyToken, timeRange, limit interface{}) *mock.Call {
	return _e.mock.On("TopArtists", ctx, spotifyToken, timeRange, limit)
}

func (_m *MockCatalogService) Artist(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken, artistID))
}

func (_e *MockCatalogService_Expecter) Artist(ctx, spotifyToken, artistID interface{}) *mock.Call {
	return _e.mock.On("Artist", ctx, spotifyToken, artistID)
}

func (_m *MockCatalogService) ArtistAlbums(ctx context.Context, spotifyToken, artistID string) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken, artistID))
}

func (_e *MockCatalogService_Expecter) ArtistAlbums(ctx, spotifyToken, artistID interface{}) *mock.Call {
	return _e.mock.On("ArtistAlbums", ctx, spotifyToken, artistID)
}

func (_m *MockCatalogService) SavedAlbums(ctx context.Context, spotifyToken string) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken))
}

func (_e *MockCatalogService_Expecter) SavedAlbums(ctx, spotifyToken interface{}) *mock.Call {
	return _e.mock.On("SavedAlbums", ctx, spotifyToken)
}

func (_m *MockCatalogService) Search(ctx context.Context, spotifyToken, query string, types []string, limit int) (map[string]json.RawMessage, error) {
	ret := _m.Called(ctx, spotifyToken, query, types, limit)

	var out map[string]json.RawMessage
	if v := ret.Get(0); v != nil {
		out = v.(map[string]json.RawMessage)
	}

	return out, ret.Error(1)
}

func (_e *MockCatalogService_Expecter) Search(ctx, spotifyToken, query, types, limit interface{}) *mock.Call {
	return _e.mock.On("Search", ctx, spotifyToken, query, types, limit)
}

func (_m *MockCatalogService) User(ctx context.Context, spotifyToken, spotifyID string) (json.RawMessage, error) {
	return rawResult(_m.Called(ctx, spotifyToken, spotifyID))
}

func (_e *MockCatalogService_Expecter) User(ctx, spotifyToken, spotifyID interface{}) *mock.Call {
	return _e.mock.On("User", ctx, spotifyToken, spotifyID)
}

func (_m *MockCatalogService) Album(ctx context.Context, spotifyToken, albumID string) (*entity.Album, error) {
	ret := _m.Called(ctx, spotifyToken, albumID)

	var album *entity.Album
	if v := ret.Get(0); v != nil {
		album = v.(*entity.Album)
	}

	return album, ret.Error(1)
}

func (_e *MockCatalogService_Expecter) Album(ctx, spotifyToken, albumID interface{}) *mock.Call {
	return _e.mock.On("Album", ctx, spotifyToken, albumID)
}

func (_m *MockCatalogService) UserProfile(ctx context.Context, spotifyToken, spotifyID string) (*entity.SpotifyProfile, error) {
	ret := _m.Called(ctx, spotifyToken, spotifyID)

	var profile *entity.SpotifyProfile
	if v := ret.Get(0); v != nil {
		profile = v.(*entity.SpotifyProfile)
	}

	return profile, ret.Error(1)
}

func (_e *MockCatalogService_Expecter) UserProfile(ctx, spotifyToken, spotifyID interface{}) *mock.Call {
	return _e.mock.On("UserProfile", ctx, spotifyToken, spotifyID)
}
