package persistence

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"groovesync/config"
	"groovesync/internal/domain/entity"
)

func newParams(t *testing.T, driver string) Params {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Mongo.Driver = driver

	return Params{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNew_MemoryDriverSharesOneStore(t *testing.T) {
	repos, err := New(newParams(t, DriverMemory))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{Username: "alice", PasswordHash: "h"}))

	u, err := repos.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotNil(t, repos.RefreshTokens)
	assert.NotNil(t, repos.Reviews)
	assert.NotNil(t, repos.Favorites)
	assert.NotNil(t, repos.Follows)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(newParams(t, "cassandra"))
	assert.ErrorContains(t, err, `unknown persistence driver "cassandra"`)
}
