package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/annfix/format"
	"github.com/klauspost/compress/gzip"
)

// GzipCompressor writes each chunk as one gzip member, matching the numcodecs
// "gzip" codec. The header carries no name and a zero modification time, so
// output is reproducible.
type GzipCompressor struct {
	level int
}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a gzip compressor with DefaultGzipLevel.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{level: DefaultGzipLevel}
}

// NewGzipCompressorLevel creates a gzip compressor for level 1-9.
func NewGzipCompressorLevel(level int) GzipCompressor {
	return GzipCompressor{level: level}
}

// Type returns format.CompressionGzip.
func (c GzipCompressor) Type() format.CompressionType {
	return format.CompressionGzip
}

// Level returns the configured gzip level.
func (c GzipCompressor) Level() int {
	return c.level
}

// Compress compresses data into a single gzip member.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a gzip chunk.
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return out, nil
}
