package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arloliu/annfix/anndata"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/options"
	"github.com/arloliu/annfix/zarr"
)

const (
	storePrefix    = "anndata-"
	storeSuffix    = ".zarr"
	snapshotSuffix = ".json"
)

// StoreName returns the store name of an X variant, e.g. "anndata-no-X".
func StoreName(f format.XFormat) string {
	return storePrefix + f.String()
}

// Writer persists the fixture variants under one output root.
type Writer struct {
	cfg  *WriterConfig
	root string
	log  *slog.Logger
}

// NewWriter creates a Writer. Without WithOutputRoot the root is
// <workdir>/<major.minor> of anndata.FormatVersion.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := defaultWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	root := cfg.outputRoot
	if root == "" {
		dir, err := anndata.VersionDir(anndata.FormatVersion)
		if err != nil {
			return nil, err
		}
		root = filepath.Join(cfg.workDir, dir)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Reject bad store options here rather than on the first variant.
	if _, err := zarr.NewWriter(zarr.NewMemStore(), cfg.storeOpts...); err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg, root: root, log: logger}, nil
}

// Root returns the output root.
func (w *Writer) Root() string {
	return w.root
}

// Run writes every variant in format.XFormats order, then the manifest.
// The first failure aborts the run; stores written before it stay on disk.
func (w *Writer) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("%w: %s: %w", errs.ErrStorageWrite, w.root, err)
	}

	m := &Manifest{
		FormatVersion: anndata.FormatVersion,
		NObs:          w.cfg.nObs,
		NVar:          w.cfg.nVar,
	}
	for _, f := range format.XFormats {
		if err := ctx.Err(); err != nil {
			return err
		}

		e, err := w.WriteVariant(f)
		if err != nil {
			return err
		}
		m.Stores = append(m.Stores, e)
	}

	if w.cfg.manifest {
		if err := m.Save(w.root); err != nil {
			return fmt.Errorf("%w: %s: %w", errs.ErrStorageWrite, ManifestFile, err)
		}
	}

	w.log.Info("fixtures written", "root", w.root, "stores", len(m.Stores), "format_version", m.FormatVersion)

	return nil
}

// WriteVariant assembles one variant and replaces its store under the
// output root, creating the root if needed.
func (w *Writer) WriteVariant(f format.XFormat) (Entry, error) {
	d, err := AssembleVariant(w.cfg.nObs, w.cfg.nVar, f)
	if err != nil {
		return Entry{}, err
	}

	name := StoreName(f)
	if err := os.MkdirAll(w.root, 0o755); err != nil { //nolint:gosec
		return Entry{}, fmt.Errorf("%w: %s: %w", errs.ErrStorageWrite, name, err)
	}
	e, err := w.persist(name, d)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %w", errs.ErrStorageWrite, name, err)
	}
	e.XFormat = f.String()

	w.log.Info("store written", "store", e.Dir(), "x_format", e.XFormat, "keys", e.Keys, "digest", e.Digest)

	return e, nil
}

// persist encodes d in memory first so a failing encode leaves the previous
// store on disk untouched.
func (w *Writer) persist(name string, d *anndata.Dataset) (Entry, error) {
	staged := zarr.NewMemStore()
	if err := anndata.WriteZarr(staged, d, anndata.WithZarrOptions(w.cfg.storeOpts...)); err != nil {
		return Entry{}, err
	}

	dir := zarr.NewDirStore(filepath.Join(w.root, name+storeSuffix))
	if err := dir.Reset(); err != nil {
		return Entry{}, err
	}
	if _, err := zarr.Copy(dir, staged); err != nil {
		return Entry{}, err
	}

	digest, keys, err := StoreDigest(dir)
	if err != nil {
		return Entry{}, err
	}

	if w.cfg.snapshots {
		snap, err := Snapshot(dir.Root())
		if err != nil {
			return Entry{}, err
		}
		if err := os.WriteFile(filepath.Join(w.root, name+snapshotSuffix), snap, 0o644); err != nil { //nolint:gosec
			return Entry{}, err
		}
	}

	return Entry{Name: name, Keys: keys, Digest: digest}, nil
}
