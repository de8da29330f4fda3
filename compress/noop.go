package compress

import "github.com/arloliu/annfix/format"

// NoOpCompressor stores chunks uncompressed.
//
// A store written with it records a null compressor, which every zarr reader
// understands. Useful for fixtures a human wants to inspect with a hex dump.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without copying.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without copying.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// Type returns format.CompressionNone.
func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// Level returns 0.
func (c NoOpCompressor) Level() int {
	return 0
}
