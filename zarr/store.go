package zarr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arloliu/annfix/errs"
)

// Store is a flat key/value view of a zarr hierarchy. Keys are slash
// separated paths relative to the store root, e.g. "obs/_index/0".
type Store interface {
	// Get returns the value stored under key, or an error wrapping
	// errs.ErrNodeNotFound if there is none.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value. Callers
	// may reuse value after Set returns, so Set must not retain it.
	Set(key string, value []byte) error

	// Keys returns all keys in lexical order.
	Keys() ([]string, error)
}

// MemStore is an in-memory Store, used for snapshots and tests.
type MemStore struct {
	entries map[string][]byte
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	v, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrNodeNotFound, key)
	}

	return v, nil
}

// Set copies value into the store.
func (s *MemStore) Set(key string, value []byte) error {
	s.entries[key] = slices.Clone(value)
	return nil
}

func (s *MemStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys, nil
}

// Len returns the number of stored keys.
func (s *MemStore) Len() int {
	return len(s.entries)
}

// DirStore is a Store backed by a directory, one file per key.
type DirStore struct {
	root string
}

var _ Store = (*DirStore)(nil)

// NewDirStore opens a directory store rooted at root. The directory is
// created on the first Set.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Root returns the store directory.
func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || slices.Contains(strings.Split(key, "/"), "..") {
		return "", fmt.Errorf("%w: invalid key %q", errs.ErrNodeNotFound, key)
	}

	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

func (s *DirStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", errs.ErrNodeNotFound, key)
	}

	return data, err
}

func (s *DirStore) Set(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	return os.WriteFile(p, value, 0o644) //nolint:gosec
}

func (s *DirStore) Keys() ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))

		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(keys)

	return keys, nil
}

// Reset removes a previous store at the root so that it can be rewritten
// from scratch. A missing root or an empty directory is left as is; any
// other content that is not a zarr group is refused with errs.ErrNotAStore.
func (s *DirStore) Reset() error {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is a file", errs.ErrNotAStore, s.root)
	}

	if _, err := os.Stat(filepath.Join(s.root, groupKey)); err == nil {
		return os.RemoveAll(s.root)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s has no %s", errs.ErrNotAStore, s.root, groupKey)
	}

	return nil
}
