package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrphanRepo(t *testing.T) *OrphanRepository {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewOrphanRepository(client)
}

func TestOrphanRepository_AddKeysRemove(t *testing.T) {
	repo := setupOrphanRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "diary/abc"))
	require.NoError(t, repo.Add(ctx, "diary/def"))
	// Recording the same key twice keeps a single entry.
	require.NoError(t, repo.Add(ctx, "diary/abc"))

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"diary/abc", "diary/def"}, keys)

	require.NoError(t, repo.Remove(ctx, "diary/abc"))

	keys, err = repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"diary/def"}, keys)
}

func TestOrphanRepository_Add_EmptyKey(t *testing.T) {
	repo := setupOrphanRepo(t)

	require.Error(t, repo.Add(context.Background(), ""))
}

func TestOrphanRepository_Keys_Empty(t *testing.T) {
	repo := setupOrphanRepo(t)

	keys, err := repo.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}
