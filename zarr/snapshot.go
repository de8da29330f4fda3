package zarr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/arloliu/annfix/errs"
)

// MarshalSnapshot encodes every entry of store as a JSON list of
// [key, base64(value)] pairs in key order. The list loads directly into a
// map-backed store in JavaScript test harnesses.
func MarshalSnapshot(store Store) ([]byte, error) {
	keys, err := store.Keys()
	if err != nil {
		return nil, err
	}

	pairs := make([][2]string, 0, len(keys))
	for _, key := range keys {
		value, err := store.Get(key)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]string{key, base64.StdEncoding.EncodeToString(value)})
	}

	return json.Marshal(pairs)
}

// LoadSnapshot decodes a snapshot written by MarshalSnapshot into a MemStore.
func LoadSnapshot(data []byte) (*MemStore, error) {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("%w: snapshot: %w", errs.ErrCorruptChunk, err)
	}

	store := NewMemStore()
	for _, pair := range pairs {
		if _, dup := store.entries[pair[0]]; dup {
			return nil, fmt.Errorf("%w: snapshot key %q", errs.ErrDuplicateKey, pair[0])
		}
		value, err := base64.StdEncoding.DecodeString(pair[1])
		if err != nil {
			return nil, fmt.Errorf("%w: snapshot key %q: %w", errs.ErrCorruptChunk, pair[0], err)
		}
		store.entries[pair[0]] = value
	}

	return store, nil
}

// Copy copies every entry of src into dst and returns the number of keys copied.
func Copy(dst, src Store) (int, error) {
	keys, err := src.Keys()
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		value, err := src.Get(key)
		if err != nil {
			return 0, err
		}
		if err := dst.Set(key, value); err != nil {
			return 0, fmt.Errorf("copy %s: %w", key, err)
		}
	}

	return len(keys), nil
}
