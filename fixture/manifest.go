package fixture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/internal/hash"
	"github.com/arloliu/annfix/zarr"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the manifest name inside the output root.
const ManifestFile = "manifest.toml"

// Manifest records what a Run produced.
type Manifest struct {
	FormatVersion string  `toml:"format_version"`
	NObs          int     `toml:"n_obs"`
	NVar          int     `toml:"n_var"`
	Stores        []Entry `toml:"store"`
}

// Entry describes one written store.
type Entry struct {
	Name    string `toml:"name"`
	XFormat string `toml:"x_format"`
	Keys    int    `toml:"keys"`
	Digest  string `toml:"digest"`
}

// Dir returns the store directory name, e.g. "anndata-csr.zarr".
func (e Entry) Dir() string {
	return e.Name + storeSuffix
}

// LoadManifest reads root/manifest.toml.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFile, err)
	}

	return &m, nil
}

// Save writes the manifest to root/manifest.toml.
func (m *Manifest) Save(root string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(root, ManifestFile), data, 0o644) //nolint:gosec
}

// StoreDigest hashes every key and value of store in key order. It
// returns the hex digest and the number of keys.
func StoreDigest(store zarr.Store) (string, int, error) {
	keys, err := store.Keys()
	if err != nil {
		return "", 0, err
	}

	d := hash.NewDigest()
	for _, key := range keys {
		value, err := store.Get(key)
		if err != nil {
			return "", 0, err
		}
		d.Add(key, value)
	}

	return d.Hex(), d.Entries(), nil
}

// Snapshot returns the JSON snapshot of the store rooted at dir.
func Snapshot(dir string) ([]byte, error) {
	return zarr.MarshalSnapshot(zarr.NewDirStore(dir))
}

// Verify recomputes the digest of every store listed in root's manifest.
// Stores that drifted or went missing are reported together, each wrapping
// errs.ErrDigestMismatch.
func Verify(root string) error {
	m, err := LoadManifest(root)
	if err != nil {
		return err
	}

	var errList []error
	for _, e := range m.Stores {
		digest, keys, err := StoreDigest(zarr.NewDirStore(filepath.Join(root, e.Dir())))
		switch {
		case err != nil:
			errList = append(errList, fmt.Errorf("%w: %s: %w", errs.ErrDigestMismatch, e.Name, err))
		case keys == 0:
			errList = append(errList, fmt.Errorf("%w: %s: store is missing", errs.ErrDigestMismatch, e.Name))
		case keys != e.Keys || digest != e.Digest:
			errList = append(errList, fmt.Errorf("%w: %s: have %d keys %s, manifest %d keys %s",
				errs.ErrDigestMismatch, e.Name, keys, digest, e.Keys, e.Digest))
		}
	}

	return errors.Join(errList...)
}
