package impl

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groovesync/config"
	"groovesync/internal/domain/service"
	"groovesync/internal/infra/auth"
	"groovesync/internal/infra/persistence/memory"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  24 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      4,
	}

	return cfg
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestTokenService(t *testing.T) service.TokenService {
	t.Helper()

	tokens, err := auth.NewJWTService(newTestConfig())
	require.NoError(t, err)

	return tokens
}

func newTestStore() (*memory.Store, *testClock) {
	clock := newTestClock()

	return memory.NewWithClock(clock.Now), clock
}
