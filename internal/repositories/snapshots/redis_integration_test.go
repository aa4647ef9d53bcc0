//go:build integration
// +build integration

package snapshots_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	"github.com/KirkDiggler/wod-character-wizard/internal/testutils"
)

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.CreateTestRedisClientOrSkip(t)

	repo := snapshots.NewRedisRepository(&snapshots.RedisRepoConfig{
		Client: client,
		TTL:    time.Hour,
	})

	ctx := context.Background()
	char := testutils.CreateTestCharacter(t, "Marrow")

	t.Run("create and retrieve snapshot", func(t *testing.T) {
		snap := testutils.CreateTestSnapshot(t, "session-1", 3, char)
		require.NoError(t, repo.Create(ctx, snap))

		got, err := repo.Get(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Step)
		assert.JSONEq(t, string(snap.Character), string(got.Character))
		assert.True(t, snap.CreatedAt.Equal(got.CreatedAt))

		ttl, err := client.TTL(ctx, "wizard:session:session-1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("create duplicate snapshot fails", func(t *testing.T) {
		snap := testutils.CreateTestSnapshot(t, "session-1", 0, char)
		err := repo.Create(ctx, snap)
		assert.True(t, dnderr.IsAlreadyExists(err))
	})

	t.Run("update snapshot", func(t *testing.T) {
		snap := testutils.CreateTestSnapshot(t, "session-1", 8, char)
		require.NoError(t, repo.Update(ctx, snap))

		got, err := repo.Get(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, 8, got.Step)
	})

	t.Run("list prunes expired keys", func(t *testing.T) {
		snap := testutils.CreateTestSnapshot(t, "session-2", 0, char)
		require.NoError(t, repo.Create(ctx, snap))
		require.NoError(t, client.Del(ctx, "wizard:session:session-2").Err())

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "session-1", list[0].ID)

		members, err := client.SMembers(ctx, "wizard:sessions").Result()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"session-1"}, members)
	})

	t.Run("delete snapshot", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "session-1"))

		_, err := repo.Get(ctx, "session-1")
		assert.True(t, dnderr.IsNotFound(err))
	})
}
