package core_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stockdesk/console/internal/adapters/memstore"
	"github.com/stockdesk/console/internal/core"
	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/mocks"
)

func newCache() (*core.ScopedCache, *memstore.Medium, *memstore.Medium) {
	session, persistent := memstore.New(), memstore.New()
	return core.NewScopedCache(core.ScopedCacheOptions{Session: session, Persistent: persistent}), session, persistent
}

func TestScopedCache_RoundTrip(t *testing.T) {
	t.Parallel()
	cache, _, _ := newCache()
	ctx := context.Background()

	for _, scope := range []core.Scope{core.ScopeSession, core.ScopePersistent} {
		require.NoError(t, cache.Set(ctx, scope, "greeting", "hello"))
		v, ok, err := cache.Get(ctx, scope, "greeting")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hello", v)
	}
}

func TestScopedCache_ScopesAreIndependent(t *testing.T) {
	t.Parallel()
	cache, _, _ := newCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, core.ScopeSession, "k", "session"))

	_, ok, err := cache.Get(ctx, core.ScopePersistent, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Remove(ctx, core.ScopePersistent, "k"))
	v, ok, err := cache.Get(ctx, core.ScopeSession, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "session", v)
}

func TestScopedCache_LastWriteWins(t *testing.T) {
	t.Parallel()
	cache, _, _ := newCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, core.ScopePersistent, "k", "first"))
	require.NoError(t, cache.Set(ctx, core.ScopePersistent, "k", "second"))

	v, ok, err := cache.Get(ctx, core.ScopePersistent, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestScopedCache_EmptyKeyIsNoop(t *testing.T) {
	t.Parallel()
	cache, session, _ := newCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, core.ScopeSession, "", "v"))
	assert.Equal(t, 0, session.Len())

	_, ok, err := cache.Get(ctx, core.ScopeSession, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopedCache_EmptyValueIsStored(t *testing.T) {
	t.Parallel()
	cache, _, _ := newCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, core.ScopeSession, "k", ""))
	v, ok, err := cache.Get(ctx, core.ScopeSession, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestScopedCache_UnavailableMedium(t *testing.T) {
	t.Parallel()
	cache := core.NewScopedCache(core.ScopedCacheOptions{Session: memstore.New()})
	ctx := context.Background()

	assert.False(t, cache.Available(core.ScopePersistent))
	assert.True(t, cache.Available(core.ScopeSession))

	require.NoError(t, cache.Set(ctx, core.ScopePersistent, "k", "v"))

	_, ok, err := cache.Get(ctx, core.ScopePersistent, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetJSON(ctx, core.ScopePersistent, "j", map[string]int{"a": 1}))
	var dst map[string]int
	ok, err = cache.GetJSON(ctx, core.ScopePersistent, "j", &dst)
	require.NoError(t, err)
	assert.False(t, ok)

	err = cache.Remove(ctx, core.ScopePersistent, "k")
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
}

func TestScopedCache_UnknownScope(t *testing.T) {
	t.Parallel()
	cache, _, _ := newCache()
	ctx := context.Background()

	err := cache.Set(ctx, core.Scope("cookie"), "k", "v")
	assert.True(t, errors.IsValidation(err))
	assert.False(t, core.Scope("cookie").Valid())
}

func TestScopedCache_JSON(t *testing.T) {
	t.Parallel()
	cache, session, _ := newCache()
	ctx := context.Background()

	type prefs struct {
		Theme  string   `json:"theme"`
		Pinned []string `json:"pinned"`
	}

	in := prefs{Theme: "dark", Pinned: []string{"600519", "000001"}}
	require.NoError(t, cache.SetJSON(ctx, core.ScopeSession, "prefs", in))

	var out prefs
	ok, err := cache.GetJSON(ctx, core.ScopeSession, "prefs", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	t.Run("missing key", func(t *testing.T) {
		var dst prefs
		ok, err := cache.GetJSON(ctx, core.ScopeSession, "missing-key", &dst)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("corrupt value", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, core.ScopeSession, "corrupt-key", "{not json"))
		var dst prefs
		ok, err := cache.GetJSON(ctx, core.ScopeSession, "corrupt-key", &dst)
		require.Error(t, err)
		assert.False(t, ok)
		assert.True(t, errors.IsDeserialization(err))
	})

	t.Run("nil is not stored", func(t *testing.T) {
		before := session.Len()
		require.NoError(t, cache.SetJSON(ctx, core.ScopeSession, "nil", nil))
		var nilMap map[string]string
		require.NoError(t, cache.SetJSON(ctx, core.ScopeSession, "nil-map", nilMap))
		assert.Equal(t, before, session.Len())
	})

	t.Run("unencodable value", func(t *testing.T) {
		err := cache.SetJSON(ctx, core.ScopeSession, "chan", make(chan int))
		assert.True(t, errors.IsValidation(err))
	})
}

func TestScopedCache_MediumErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ioErr := stderrors.New("disk on fire")
	gone := errors.StorageUnavailable("directory missing")

	tests := []struct {
		name  string
		setup func(m *mocks.MockStorageMedium)
		run   func(c *core.ScopedCache) error
		check func(t *testing.T, err error)
	}{
		{
			name: "set degrades on unavailable",
			setup: func(m *mocks.MockStorageMedium) {
				m.EXPECT().SetItem(gomock.Any(), "k", "v").Return(gone)
			},
			run:   func(c *core.ScopedCache) error { return c.Set(ctx, core.ScopePersistent, "k", "v") },
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "get degrades on unavailable",
			setup: func(m *mocks.MockStorageMedium) {
				m.EXPECT().GetItem(gomock.Any(), "k").Return("", false, gone)
			},
			run: func(c *core.ScopedCache) error {
				_, ok, err := c.Get(ctx, core.ScopePersistent, "k")
				if ok {
					return stderrors.New("unexpected hit")
				}
				return err
			},
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "remove propagates unavailable",
			setup: func(m *mocks.MockStorageMedium) {
				m.EXPECT().RemoveItem(gomock.Any(), "k").Return(gone)
			},
			run:   func(c *core.ScopedCache) error { return c.Remove(ctx, core.ScopePersistent, "k") },
			check: func(t *testing.T, err error) { assert.True(t, errors.IsStorageUnavailable(err)) },
		},
		{
			name: "set propagates io error",
			setup: func(m *mocks.MockStorageMedium) {
				m.EXPECT().SetItem(gomock.Any(), "k", "v").Return(ioErr)
			},
			run:   func(c *core.ScopedCache) error { return c.Set(ctx, core.ScopePersistent, "k", "v") },
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ioErr) },
		},
		{
			name: "get propagates io error",
			setup: func(m *mocks.MockStorageMedium) {
				m.EXPECT().GetItem(gomock.Any(), "k").Return("", false, ioErr)
			},
			run: func(c *core.ScopedCache) error {
				_, _, err := c.Get(ctx, core.ScopePersistent, "k")
				return err
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ioErr) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			medium := mocks.NewMockStorageMedium(ctrl)
			tt.setup(medium)
			cache := core.NewScopedCache(core.ScopedCacheOptions{Session: memstore.New(), Persistent: medium})
			tt.check(t, tt.run(cache))
		})
	}
}

func TestTokenStore(t *testing.T) {
	t.Parallel()
	cache, _, persistent := newCache()
	ctx := context.Background()
	store := core.NewTokenStore(cache, "")
	assert.Equal(t, core.DefaultTokenKey, store.Key())

	tok, err := store.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, tok.IsEmpty())

	require.NoError(t, store.Persist(ctx, "abc"))
	raw, ok, _ := persistent.GetItem(ctx, core.DefaultTokenKey)
	assert.True(t, ok)
	assert.Equal(t, "abc", raw)

	tok, err = store.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(tok))

	require.NoError(t, store.Clear(ctx))
	tok, err = store.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, tok.IsEmpty())
}

func TestTokenStore_CustomKeyAndUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache := core.NewScopedCache(core.ScopedCacheOptions{})
	store := core.NewTokenStore(cache, "Desk-Token")
	assert.Equal(t, "Desk-Token", store.Key())

	require.NoError(t, store.Persist(ctx, "abc"))
	tok, err := store.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, tok.IsEmpty())

	assert.True(t, errors.IsStorageUnavailable(store.Clear(ctx)))
}
