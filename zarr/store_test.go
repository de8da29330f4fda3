package zarr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/annfix/errs"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	return map[string]Store{
		"mem": NewMemStore(),
		"dir": NewDirStore(filepath.Join(t.TempDir(), "store.zarr")),
	}
}

func TestStore_SetGetKeys(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(".zgroup", []byte("{}")))
			require.NoError(t, store.Set("obs/_index/0", []byte{1, 2}))
			require.NoError(t, store.Set("X/.zarray", []byte("x")))

			got, err := store.Get("obs/_index/0")
			require.NoError(t, err)
			require.Equal(t, []byte{1, 2}, got)

			require.NoError(t, store.Set("X/.zarray", []byte("y")))
			got, err = store.Get("X/.zarray")
			require.NoError(t, err)
			require.Equal(t, []byte("y"), got)

			keys, err := store.Keys()
			require.NoError(t, err)
			require.Equal(t, []string{".zgroup", "X/.zarray", "obs/_index/0"}, keys)

			_, err = store.Get("missing")
			require.ErrorIs(t, err, errs.ErrNodeNotFound)
		})
	}
}

func TestMemStore_SetCopies(t *testing.T) {
	store := NewMemStore()
	value := []byte{1}
	require.NoError(t, store.Set("k", value))
	value[0] = 9

	got, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte{1}, got)
	require.Equal(t, 1, store.Len())
}

func TestDirStore_RejectsEscapingKeys(t *testing.T) {
	store := NewDirStore(t.TempDir())
	for _, key := range []string{"", "/abs", "../up", "a/../../b"} {
		require.Error(t, store.Set(key, nil), key)
	}
}

func TestDirStore_KeysOfMissingRoot(t *testing.T) {
	store := NewDirStore(filepath.Join(t.TempDir(), "nope"))
	keys, err := store.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestDirStore_Reset(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		store := NewDirStore(filepath.Join(t.TempDir(), "a.zarr"))
		require.NoError(t, store.Reset())
	})

	t.Run("empty directory", func(t *testing.T) {
		store := NewDirStore(t.TempDir())
		require.NoError(t, store.Reset())
	})

	t.Run("existing group", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "a.zarr")
		store := NewDirStore(root)
		require.NoError(t, store.Set(".zgroup", []byte(`{"zarr_format": 2}`)))
		require.NoError(t, store.Set("stale/0", []byte{1}))

		require.NoError(t, store.Reset())
		_, err := os.Stat(root)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("foreign directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep"), 0o644))

		err := NewDirStore(root).Reset()
		require.ErrorIs(t, err, errs.ErrNotAStore)
		_, err = os.Stat(filepath.Join(root, "notes.txt"))
		require.NoError(t, err)
	})

	t.Run("file", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(root, nil, 0o644))
		require.ErrorIs(t, NewDirStore(root).Reset(), errs.ErrNotAStore)
	})
}
