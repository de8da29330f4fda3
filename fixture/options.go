package fixture

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/internal/options"
	"github.com/arloliu/annfix/zarr"
)

// WriterConfig holds the settings of a Writer.
type WriterConfig struct {
	workDir    string
	outputRoot string
	nObs       int
	nVar       int
	storeOpts  []zarr.WriterOption
	snapshots  bool
	manifest   bool
	logger     *slog.Logger
}

func defaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		workDir:   ".",
		nObs:      DefaultNObs,
		nVar:      DefaultNVar,
		snapshots: true,
		manifest:  true,
	}
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithWorkDir sets the directory under which the version directory is
// created. The default is the current directory; an empty dir keeps it.
func WithWorkDir(dir string) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		if dir != "" {
			c.workDir = dir
		}
	})
}

// WithOutputRoot writes the stores directly into root instead of
// <workdir>/<major.minor>.
func WithOutputRoot(root string) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.outputRoot = root
	})
}

// WithShape overrides the fixture dimensions.
func WithShape(nObs, nVar int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if nObs < 0 || nVar < 0 {
			return fmt.Errorf("%w: %dx%d", errs.ErrInvalidShape, nObs, nVar)
		}
		c.nObs, c.nVar = nObs, nVar

		return nil
	})
}

// WithStoreOptions forwards options to the zarr writer of every store.
func WithStoreOptions(opts ...zarr.WriterOption) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.storeOpts = append(c.storeOpts, opts...)
	})
}

// WithSnapshots controls whether <name>.json snapshots are written next to
// each store. Enabled by default.
func WithSnapshots(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.snapshots = enabled
	})
}

// WithManifest controls whether Run writes manifest.toml. Enabled by default.
func WithManifest(enabled bool) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.manifest = enabled
	})
}

// WithLogger sets the logger. A nil logger falls back to slog.Default.
func WithLogger(logger *slog.Logger) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.logger = logger
	})
}
