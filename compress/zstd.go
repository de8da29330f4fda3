package compress

import "github.com/arloliu/annfix/format"

// ZstdCompressor provides Zstandard compression of array chunks.
//
// The produced frames are plain zstd frames, readable by the numcodecs
// "zstd" codec. The compression level only affects size, never the decoded
// bytes.
type ZstdCompressor struct {
	level int
}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with DefaultZstdLevel.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{level: DefaultZstdLevel}
}

// NewZstdCompressorLevel creates a Zstd compressor for a numcodecs level (1-22).
//
// Example:
//
//	compressor := NewZstdCompressorLevel(3)
//	compressed, err := compressor.Compress(chunk)
//	if err != nil {
//		return err
//	}
func NewZstdCompressorLevel(level int) ZstdCompressor {
	return ZstdCompressor{level: level}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// Level returns the configured zstd level.
func (c ZstdCompressor) Level() int {
	return c.level
}
