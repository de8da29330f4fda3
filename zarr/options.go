package zarr

import (
	"fmt"

	"github.com/arloliu/annfix/endian"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/options"
)

// WriterConfig holds the chunk encoding settings of a Writer.
type WriterConfig struct {
	compression  format.CompressionType
	level        int
	engine       endian.EndianEngine
	maxChunkRows int
}

func defaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		compression: format.CompressionZstd,
		engine:      endian.GetLittleEndianEngine(),
	}
}

// WriterOption is a functional option for configuring a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithCompression selects the chunk compressor. Zstd is the default.
func WithCompression(comp format.CompressionType) WriterOption {
	return options.New(func(c *WriterConfig) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionLZ4,
			format.CompressionGzip, format.CompressionZlib:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, comp)
		}
	})
}

// WithCompressionLevel sets the compressor level, or the acceleration for
// LZ4. Zero selects the compressor's default. The range is checked against
// the selected compressor when the writer is created.
func WithCompressionLevel(level int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if level < 0 {
			return fmt.Errorf("%w: negative level %d", errs.ErrUnsupportedCompression, level)
		}
		c.level = level

		return nil
	})
}

// WithLittleEndian writes numeric chunks least significant byte first. It is
// the default.
func WithLittleEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes numeric chunks most significant byte first, recorded
// as a '>' dtype prefix.
func WithBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithMaxChunkRows splits numeric arrays into chunks of at most n rows along
// axis 0. Zero, the default, writes every array as a single chunk.
func WithMaxChunkRows(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: chunk rows %d", errs.ErrInvalidShape, n)
		}
		c.maxChunkRows = n

		return nil
	})
}
