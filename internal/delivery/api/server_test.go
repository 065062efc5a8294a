package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groovesync/config"
	apimiddleware "groovesync/internal/delivery/api/middleware"
	"groovesync/internal/delivery/api/router"
	"groovesync/internal/delivery/api/router/handler"
	deliverycontext "groovesync/internal/delivery/context"
	"groovesync/internal/infra/auth"
	"groovesync/internal/infra/metrics"
	"groovesync/internal/infra/persistence/memory"
	"groovesync/internal/infra/ratelimit"
	mockSvc "groovesync/internal/mocks/service"
	"groovesync/internal/usecase/impl"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testServer struct {
	t       *testing.T
	echo    *echo.Echo
	oauth   *mockSvc.MockOAuthService
	catalog *mockSvc.MockCatalogService
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.ServiceName = "groovesync"
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      4,
	}
	cfg.RateLimit = &config.RateLimitConfig{Enabled: true, Requests: 20, Window: time.Minute}
	cfg.Metrics = &config.MetricsConfig{Enabled: true, Path: "/metrics"}

	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(cfg)
	oauth := mockSvc.NewMockOAuthService(t)
	catalog := mockSvc.NewMockCatalogService(t)
	m := metrics.NewMetrics(metrics.NewRegistry())

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:         store.Users(),
		RefreshTokenRepo: store.RefreshTokens(),
		Hasher:           hasher,
		TokenService:     tokens,
		OAuthService:     oauth,
		Events:           m,
		Logger:           logger,
	})
	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo:         store.Users(),
		RefreshTokenRepo: store.RefreshTokens(),
		FollowRepo:       store.Follows(),
		Hasher:           hasher,
		Logger:           logger,
	})
	reviewUC := impl.NewReviewService(impl.ReviewServiceParams{ReviewRepo: store.Reviews(), Logger: logger})
	favoriteUC := impl.NewFavoriteService(impl.FavoriteServiceParams{
		FavoriteRepo: store.Favorites(),
		Catalog:      catalog,
		Logger:       logger,
	})
	followUC := impl.NewFollowService(impl.FollowServiceParams{
		FollowRepo: store.Follows(),
		UserRepo:   store.Users(),
		Catalog:    catalog,
		Logger:     logger,
	})
	catalogUC := impl.NewCatalogService(impl.CatalogServiceParams{
		Catalog:      catalog,
		UserRepo:     store.Users(),
		ReviewRepo:   store.Reviews(),
		FavoriteRepo: store.Favorites(),
		Logger:       logger,
	})

	e, err := newEcho(ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			HealthHandler:   handler.NewHealthHandler(cfg),
			AuthHandler:     handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
			UserHandler:     handler.NewUserHandler(handler.UserHandlerParams{AccountUC: accountUC, Logger: logger}),
			ReviewHandler:   handler.NewReviewHandler(handler.ReviewHandlerParams{ReviewUC: reviewUC, Logger: logger}),
			FavoriteHandler: handler.NewFavoriteHandler(handler.FavoriteHandlerParams{FavoriteUC: favoriteUC, Logger: logger}),
			FollowHandler:   handler.NewFollowHandler(handler.FollowHandlerParams{FollowUC: followUC, Logger: logger}),
			SpotifyHandler:  handler.NewSpotifyHandler(handler.SpotifyHandlerParams{CatalogUC: catalogUC, Logger: logger}),
			AuthMiddleware:  apimiddleware.NewAuthMiddleware(tokens),
			RateLimit: apimiddleware.NewRateLimitMiddleware(
				ratelimit.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), logger),
			Config: cfg,
		},
	})
	require.NoError(t, err)

	return &testServer{t: t, echo: e, oauth: oauth, catalog: catalog}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func (s *testServer) register(username, password string) handler.TokenPairResponse {
	s.t.Helper()

	rec, env := s.do(http.MethodPost, "/auth/register", handler.CredentialsRequest{Username: username, Password: password}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var pair handler.TokenPairResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &pair))

	return pair
}

func bearer(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, newTestConfig())

	rec, env := s.do(http.MethodGet, "/health", nil, map[string]string{deliverycontext.HeaderXRequestID: "req-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "req-1", env.Meta.RequestID)
	assert.JSONEq(t, `{"status":"ok","service":"groovesync"}`, string(env.Data))
}

func TestServer_SessionLifecycle(t *testing.T) {
	s := newTestServer(t, newTestConfig())

	pair := s.register("alice", "secret")
	assert.NotEmpty(t, pair.Token)
	assert.NotEmpty(t, pair.RefreshToken)

	t.Run("duplicate register conflicts", func(t *testing.T) {
		rec, env := s.do(http.MethodPost, "/auth/register", handler.CredentialsRequest{Username: "alice", Password: "x"}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "USER_ALREADY_EXISTS", env.Error.Code)
	})

	t.Run("missing fields are rejected with details", func(t *testing.T) {
		rec, env := s.do(http.MethodPost, "/auth/login", map[string]string{"username": "alice"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.Equal(t, "password is required", env.Error.Details)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := s.do(http.MethodPost, "/auth/login", handler.CredentialsRequest{Username: "alice", Password: "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
		assert.Nil(t, env.Error.Details)
	})

	rec, env := s.do(http.MethodPost, "/auth/login", handler.CredentialsRequest{Username: "alice", Password: "secret"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login handler.TokenPairResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	t.Run("the first session can no longer refresh", func(t *testing.T) {
		rec, _ := s.do(http.MethodPost, "/auth/refresh", handler.RefreshTokenRequest{RefreshToken: pair.RefreshToken}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	rec, env = s.do(http.MethodPost, "/auth/refresh", handler.RefreshTokenRequest{RefreshToken: login.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed handler.AccessTokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))

	rec, env = s.do(http.MethodGet, "/user/me", nil, bearer(refreshed.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	var me handler.ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)
	assert.NotContains(t, string(env.Data), "password")

	rec, _ = s.do(http.MethodPost, "/auth/logout", handler.RefreshTokenRequest{RefreshToken: login.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/auth/refresh", handler.RefreshTokenRequest{RefreshToken: login.RefreshToken}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "REFRESH_TOKEN_INVALID", env.Error.Code)
}

func TestServer_RequestGate(t *testing.T) {
	s := newTestServer(t, newTestConfig())
	pair := s.register("alice", "secret")

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{name: "no header", headers: nil, wantStatus: http.StatusBadRequest, wantCode: "AUTH_HEADER_INVALID"},
		{name: "not bearer", headers: map[string]string{echo.HeaderAuthorization: "Token abc"}, wantStatus: http.StatusBadRequest, wantCode: "AUTH_HEADER_INVALID"},
		{name: "garbage token", headers: bearer("abc"), wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_INVALID"},
		{name: "refresh token is not an access token", headers: bearer(pair.RefreshToken), wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(http.MethodGet, "/user/me", nil, tt.headers)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestServer_Reviews(t *testing.T) {
	s := newTestServer(t, newTestConfig())
	alice := s.register("alice", "pw")
	bob := s.register("bob", "pw")

	rec, env := s.do(http.MethodPost, "/review/save", map[string]any{"album_id": "album-1", "rate": 4.5, "text": "great"}, bearer(alice.Token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.ReviewIDResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ReviewID)

	rec, env = s.do(http.MethodPost, "/review/save", map[string]any{"album_id": "album-1", "rate": 7}, bearer(alice.Token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	rec, env = s.do(http.MethodGet, "/review/get/alice?limit=10", nil, bearer(bob.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	var list handler.ReviewListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, "great", list.Reviews[0].Text)

	rec, _ = s.do(http.MethodGet, "/review/get/alice?limit=-1", nil, bearer(bob.Token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPut, "/review/update/"+created.ReviewID, map[string]any{"text": "mine now"}, bearer(bob.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, _ = s.do(http.MethodPut, "/review/update/"+created.ReviewID, map[string]any{"text": "still great"}, bearer(alice.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/review/delete/"+created.ReviewID, nil, bearer(alice.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodDelete, "/review/delete/"+created.ReviewID, nil, bearer(alice.Token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REVIEW_NOT_FOUND", env.Error.Code)
}

func TestServer_Follows(t *testing.T) {
	s := newTestServer(t, newTestConfig())
	alice := s.register("alice", "pw")
	s.register("bob", "pw")

	rec, env := s.do(http.MethodPost, "/follow/add", handler.FollowRequest{Username: "bob"}, bearer(alice.Token))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handler.FollowIDResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.FollowID)

	rec, _ = s.do(http.MethodPost, "/follow/add", handler.FollowRequest{Username: "bob"}, bearer(alice.Token))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = s.do(http.MethodGet, "/follow/followers/bob", nil, bearer(alice.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	var followers handler.FollowersResponse
	require.NoError(t, json.Unmarshal(env.Data, &followers))
	require.Len(t, followers.Followers, 1)
	assert.Equal(t, "alice", followers.Followers[0].Username)

	rec, _ = s.do(http.MethodDelete, "/follow/remove", nil, bearer(alice.Token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/follow/remove?username=bob", nil, bearer(alice.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_SpotifyRoutes(t *testing.T) {
	s := newTestServer(t, newTestConfig())
	alice := s.register("alice", "pw")

	t.Run("spotify token required", func(t *testing.T) {
		rec, env := s.do(http.MethodGet, "/spotify/recent-tracks", nil, bearer(alice.Token))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "SPOTIFY_TOKEN_REQUIRED", env.Error.Code)
	})

	t.Run("nothing playing", func(t *testing.T) {
		s.catalog.EXPECT().CurrentlyPlaying(mock.Anything, "sp-token").Return(nil, false, nil).Once()

		headers := bearer(alice.Token)
		headers["Spotify-Token"] = "sp-token"
		rec, _ := s.do(http.MethodGet, "/spotify/current-track", nil, headers)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("search needs a query", func(t *testing.T) {
		headers := bearer(alice.Token)
		headers["Spotify-Token"] = "sp-token"
		rec, env := s.do(http.MethodGet, "/spotify/search", nil, headers)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "q is required", env.Error.Details)
	})

	t.Run("recent tracks pass through", func(t *testing.T) {
		s.catalog.EXPECT().RecentTracks(mock.Anything, "sp-token", 5).Return(json.RawMessage(`{"items":[1]}`), nil).Once()

		headers := bearer(alice.Token)
		headers["Spotify-Token"] = "sp-token"
		rec, env := s.do(http.MethodGet, "/spotify/recent-tracks", nil, headers)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[1]}`, string(env.Data))
	})
}

func TestServer_SpotifyAuthorizationURL(t *testing.T) {
	s := newTestServer(t, newTestConfig())
	s.oauth.EXPECT().AuthorizationURL(mock.AnythingOfType("string")).Return("https://accounts.example/authorize").Once()

	rec, env := s.do(http.MethodGet, "/auth/spotify/url", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out handler.SpotifyURLResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "https://accounts.example/authorize", out.URL)
	assert.NotEmpty(t, out.State)
}

func TestServer_LoginRateLimited(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimit.Requests = 2
	s := newTestServer(t, cfg)

	creds := handler.CredentialsRequest{Username: "ghost", Password: "pw"}
	for range 2 {
		rec, _ := s.do(http.MethodPost, "/auth/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env := s.do(http.MethodPost, "/auth/login", creds, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)

	// Other routes are not limited.
	rec, _ = s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_LoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimit.Requests = 2
	s := newTestServer(t, cfg)

	creds := handler.CredentialsRequest{Username: "ghost", Password: "pw"}
	limited := 0
	for i := range 10 {
		rec, _ := s.do(http.MethodPost, "/auth/login", creds, map[string]string{
			echo.HeaderXForwardedFor: fmt.Sprintf("10.0.0.%d", i),
			echo.HeaderXRealIP:       fmt.Sprintf("10.0.1.%d", i),
		})
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 8, limited)
}

func TestServer_LoginRateLimitBehindTrustedProxy(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimit.Requests = 2
	// httptest requests come from 192.0.2.1.
	cfg.HTTP.TrustedProxies = []string{"192.0.2.0/24"}
	s := newTestServer(t, cfg)

	creds := handler.CredentialsRequest{Username: "ghost", Password: "pw"}
	for i := range 4 {
		rec, _ := s.do(http.MethodPost, "/auth/login", creds, map[string]string{
			echo.HeaderXForwardedFor: fmt.Sprintf("198.51.100.%d", i),
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "client %d has its own budget", i)
	}

	client := map[string]string{echo.HeaderXForwardedFor: "203.0.113.7"}
	for range 2 {
		rec, _ := s.do(http.MethodPost, "/auth/login", creds, client)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec, _ := s.do(http.MethodPost, "/auth/login", creds, client)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNewIPExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.7")

	direct, err := newIPExtractor(nil)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", direct(req))

	proxied, err := newIPExtractor([]string{"10.0.0.0/8, 192.0.2.1"})
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", proxied(req))

	untrusted, err := newIPExtractor([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.1", untrusted(req))

	_, err = newIPExtractor([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = newIPExtractor([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, newTestConfig())

	s.do(http.MethodGet, "/health", nil, nil)

	rec, _ := s.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `groovesync_http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := newTestConfig()
	cfg.Metrics.Enabled = false
	s := newTestServer(t, cfg)

	rec, _ := s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
