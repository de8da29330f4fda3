package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/annfix/format"
	"github.com/klauspost/compress/zlib"
)

// ZlibCompressor writes each chunk as a zlib stream, matching the numcodecs
// "zlib" codec.
type ZlibCompressor struct {
	level int
}

var _ Codec = (*ZlibCompressor)(nil)

// NewZlibCompressor creates a zlib compressor with DefaultZlibLevel.
func NewZlibCompressor() ZlibCompressor {
	return ZlibCompressor{level: DefaultZlibLevel}
}

// NewZlibCompressorLevel creates a zlib compressor for level 1-9.
func NewZlibCompressorLevel(level int) ZlibCompressor {
	return ZlibCompressor{level: level}
}

// Type returns format.CompressionZlib.
func (c ZlibCompressor) Type() format.CompressionType {
	return format.CompressionZlib
}

// Level returns the configured zlib level.
func (c ZlibCompressor) Level() int {
	return c.level
}

// Compress compresses data into a zlib stream.
func (c ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a zlib chunk.
func (c ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}
