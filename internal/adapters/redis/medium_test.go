package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/console/internal/core"
	"github.com/stockdesk/console/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestMedium_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)

	prefix := testutil.RedisKeyPrefix(t, client)
	m := NewMediumWithPrefix(client, prefix)
	ctx := context.Background()

	require.NoError(t, m.SetItem(ctx, "Admin-Token", "abc"))

	v, ok, err := m.GetItem(ctx, "Admin-Token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	ttl, err := client.TTL(ctx, prefix+"Admin-Token").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "persistent entries should not expire")
}

func TestMedium_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)

	m := NewMediumWithPrefix(client, testutil.RedisKeyPrefix(t, client))
	_, ok, err := m.GetItem(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMedium_Remove(t *testing.T) {
	client := setupTestRedis(t)

	prefix := testutil.RedisKeyPrefix(t, client)
	m := NewMediumWithPrefix(client, prefix)
	ctx := context.Background()

	require.NoError(t, m.SetItem(ctx, "k", "v"))
	require.NoError(t, m.RemoveItem(ctx, "k"))
	require.NoError(t, m.RemoveItem(ctx, "k"))

	exists, err := client.Exists(ctx, prefix+"k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestMedium_BacksTokenStore(t *testing.T) {
	client := setupTestRedis(t)

	cache := core.NewScopedCache(core.ScopedCacheOptions{Persistent: NewMediumWithPrefix(client, testutil.RedisKeyPrefix(t, client))})
	store := core.NewTokenStore(cache, "")
	ctx := context.Background()

	require.NoError(t, store.Persist(ctx, "tok-1"))
	tok, err := store.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", string(tok))

	require.NoError(t, store.Clear(ctx))
	tok, err = store.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, tok.IsEmpty())
}

func TestNewMedium_DefaultPrefix(t *testing.T) {
	m := NewMedium(nil)
	assert.Equal(t, DefaultPrefix, m.prefix)
}
