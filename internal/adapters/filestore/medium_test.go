package filestore

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/console/internal/errors"
)

func TestMedium_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	m, err := New(path, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := m.GetItem(ctx, "Admin-Token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.SetItem(ctx, "Admin-Token", "abc"))
	require.NoError(t, m.SetItem(ctx, "theme", "dark"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	// a second medium over the same file sees the writes
	other, err := New(path, nil)
	require.NoError(t, err)
	v, ok, err := other.GetItem(ctx, "Admin-Token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, m.RemoveItem(ctx, "Admin-Token"))
	require.NoError(t, m.RemoveItem(ctx, "Admin-Token"))
	_, ok, err = other.GetItem(ctx, "Admin-Token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.RemoveItem(ctx, "theme"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMedium_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	m, err := New(path, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = m.GetItem(ctx, "k")
	require.Error(t, err)
	assert.True(t, errors.IsDeserialization(err))

	// removing from a corrupted file finds nothing to remove
	require.NoError(t, m.RemoveItem(ctx, "k"))

	// writing replaces the corrupted document
	require.NoError(t, m.SetItem(ctx, "Admin-Token", "fresh"))
	v, ok, err := m.GetItem(ctx, "Admin-Token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestMedium_UnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	m, err := New(filepath.Join(blocker, "sub", "storage.json"), nil)
	require.NoError(t, err)

	err = m.SetItem(context.Background(), "k", "v")
	require.Error(t, err)
	assert.True(t, errors.IsStorageUnavailable(err))
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(DefaultDir, DefaultFile), filepath.Join(filepath.Base(filepath.Dir(p)), filepath.Base(p)))

	m, err := New("", nil)
	require.NoError(t, err)
	assert.Equal(t, p, m.Path())
}
