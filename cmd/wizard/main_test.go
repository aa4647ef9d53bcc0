package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wod-character-wizard/internal/config"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	"github.com/KirkDiggler/wod-character-wizard/internal/services/wizard"
)

func TestRedisClient(t *testing.T) {
	client, err := redisClient(config.RedisConfig{URL: "redis://:secret@cache:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", client.Options().Addr)
	assert.Equal(t, "secret", client.Options().Password)
	assert.Equal(t, 3, client.Options().DB)

	client, err = redisClient(config.RedisConfig{Addr: "localhost:6379", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	_, err = redisClient(config.RedisConfig{URL: "http://nope"})
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	repo, closeStore, err := openStore(ctx, &config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	closeStore()
	assert.IsType(t, &snapshots.InMemoryRepository{}, repo)

	path := filepath.Join(t.TempDir(), "wizard.db")
	repo, closeStore, err = openStore(ctx, &config.Config{
		Store:  config.StoreSQLite,
		SQLite: config.SQLiteConfig{Path: path},
	})
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &snapshots.SQLiteRepository{}, repo)
	assert.FileExists(t, path)
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	ash := character.Empty()
	ash.Name = "Ash"
	data, err := wizard.Marshal(ash)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(good, data, 0o600))
	require.NoError(t, os.WriteFile(bad, []byte(`{"name":"Ash"}`), 0o600))

	cat := catalog.Default()
	assert.NoError(t, validateFiles(cat, nil, []string{good}))

	err = validateFiles(cat, nil, []string{good, bad})
	require.Error(t, err)
	assert.True(t, dnderr.IsValidation(err))

	assert.True(t, dnderr.IsInvalidArgument(validateFiles(cat, nil, nil)))
}

func TestWithID(t *testing.T) {
	var gotID string
	var gotArgs []string
	cmd := withID(func(_ context.Context, _ wizard.Service, id string, args []string) error {
		gotID, gotArgs = id, args
		return nil
	})

	require.NoError(t, cmd(context.Background(), nil, []string{"abc", "3"}))
	assert.Equal(t, "abc", gotID)
	assert.Equal(t, []string{"3"}, gotArgs)

	assert.True(t, dnderr.IsInvalidArgument(cmd(context.Background(), nil, nil)))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(dnderr.InvalidArgument("session ID is required")))
	assert.Equal(t, 1, exitCode(dnderr.NotFoundf("session %s not found", "abc")))
	assert.Equal(t, 1, exitCode(os.ErrNotExist))
}
