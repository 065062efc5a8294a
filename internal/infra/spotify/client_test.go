package spotify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groovesync/config"
	domainerrors "groovesync/internal/domain/errors"
)

type fakeRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *fakeRecorder) RecordUpstream(endpoint, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]int)
	}
	r.counts[endpoint+"/"+outcome]++
}

func (r *fakeRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key]
}

func newTestClient(t *testing.T, handler http.Handler, maxFailures uint32) (*Client, *fakeRecorder) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Spotify: &config.SpotifyConfig{
		APIURL:  srv.URL + "/v1",
		Timeout: 5 * time.Second,
		Breaker: config.BreakerConfig{MaxFailures: maxFailures, Interval: time.Minute, Timeout: time.Minute},
	}}
	rec := &fakeRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewClient(cfg, logger, rec), rec
}

func TestClient_Album(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/albums/alb1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sp-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"id": "alb1",
			"name": "Blue Train",
			"release_date": "1958-01-01",
			"images": [{"url": "https://img/alb1"}],
			"artists": [{"id": "ar1", "name": "John Coltrane"}],
			"external_urls": {"spotify": "https://open.spotify.com/album/alb1"}
		}`))
	})
	client, rec := newTestClient(t, mux, 5)

	album, err := client.Album(context.Background(), "sp-token", "alb1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Train", album.Name)
	assert.Equal(t, "1958", album.ReleaseYear())
	assert.Equal(t, "https://img/alb1", album.ImageURL())
	assert.Equal(t, "https://open.spotify.com/album/alb1", album.SpotifyURL())
	require.Len(t, album.Artists, 1)
	assert.Equal(t, "John Coltrane", album.Artists[0].Name)
	assert.Equal(t, 1, rec.count("album/ok"))
}

func TestClient_QueryParameters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/me/top/artists", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "short_term", q.Get("time_range"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "coltrane", q.Get("q"))
		assert.Equal(t, "artist,album", q.Get("type"))
		assert.Equal(t, "20", q.Get("limit"))
		_, _ = w.Write([]byte(`{"artists":{"items":[1]},"albums":{"items":[2]}}`))
	})
	client, _ := newTestClient(t, mux, 5)

	top, err := client.TopArtists(context.Background(), "tok", "short_term", 5)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(top))

	pages, err := client.Search(context.Background(), "tok", "coltrane", []string{"artist", "album"}, 20)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[1]}`, string(pages["artists"]))
	assert.JSONEq(t, `{"items":[2]}`, string(pages["albums"]))
}

func TestClient_CurrentlyPlayingNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/me/player/currently-playing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, mux, 5)

	raw, playing, err := client.CurrentlyPlaying(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, playing)
	assert.Nil(t, raw)
}

func TestClient_ClientErrorPassesProviderText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/artists/x", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
	})
	client, rec := newTestClient(t, mux, 1)

	for range 3 {
		_, err := client.Artist(context.Background(), "tok", "x")

		var upstream *domainerrors.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusBadRequest, upstream.HTTPCode())
		assert.Contains(t, upstream.Details(), "The access token expired")
	}

	// 4xx answers never trip the breaker.
	assert.Equal(t, 3, rec.count("artist/client_error"))
	assert.Equal(t, 0, rec.count("artist/rejected"))
}

func TestClient_BreakerOpensAfterServerErrors(t *testing.T) {
	var calls int
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/me/albums", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})
	client, rec := newTestClient(t, mux, 2)

	for range 2 {
		_, err := client.SavedAlbums(context.Background(), "tok")

		var upstream *domainerrors.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusInternalServerError, upstream.HTTPCode())
	}

	_, err := client.SavedAlbums(context.Background(), "tok")
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
	assert.Equal(t, domainerrors.KindUpstream, domainerrors.KindOf(err))

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
	assert.Equal(t, 2, rec.count("saved_albums/error"))
	assert.Equal(t, 1, rec.count("saved_albums/rejected"))
}

func TestClient_UserProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/sp1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"sp1","display_name":"Bob","images":[{"url":"https://img/bob"}]}`))
	})
	client, _ := newTestClient(t, mux, 5)

	profile, err := client.UserProfile(context.Background(), "tok", "sp1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", profile.DisplayName)
	assert.Equal(t, "https://img/bob", profile.ImageURL())
}
