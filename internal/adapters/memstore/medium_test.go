package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedium_SetGetRemove(t *testing.T) {
	m := New()
	ctx := context.Background()

	_, ok, err := m.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SetItem(ctx, "k", "v1"))
	require.NoError(t, m.SetItem(ctx, "k", "v2"))

	v, ok, err := m.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.RemoveItem(ctx, "k"))
	require.NoError(t, m.RemoveItem(ctx, "k"))
	assert.Equal(t, 0, m.Len())
}

func TestMedium_Clear(t *testing.T) {
	m := New()
	ctx := context.Background()
	require.NoError(t, m.SetItem(ctx, "a", "1"))
	require.NoError(t, m.SetItem(ctx, "b", "2"))

	m.Clear()

	_, ok, _ := m.GetItem(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMedium_ConcurrentWriters(t *testing.T) {
	m := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.SetItem(ctx, "shared", fmt.Sprintf("v%d", i))
		}(i)
	}
	wg.Wait()

	v, ok, err := m.GetItem(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, "v")
}
