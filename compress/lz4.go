package compress

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/pierrec/lz4/v4"
)

// lz4HeaderSize is the size of the little-endian uncompressed length that
// numcodecs places in front of every LZ4 block.
const lz4HeaderSize = 4

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal hash tables that benefit from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor produces numcodecs compatible LZ4 chunks: a 4-byte
// little-endian uncompressed size followed by one raw LZ4 block.
//
// The acceleration factor is recorded in store metadata only. The pierrec
// block compressor always runs at its default speed, which every LZ4
// decoder can read regardless of the recorded acceleration.
type LZ4Compressor struct {
	acceleration int
}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor with DefaultLZ4Acceleration.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{acceleration: DefaultLZ4Acceleration}
}

// NewLZ4CompressorAcceleration creates an LZ4 compressor that records the
// given acceleration factor.
func NewLZ4CompressorAcceleration(acceleration int) LZ4Compressor {
	return LZ4Compressor{acceleration: acceleration}
}

// Type returns format.CompressionLZ4.
func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Level returns the recorded acceleration factor.
func (c LZ4Compressor) Level() int {
	return c.acceleration
}

// Compress compresses the input data using a pooled lz4.Compressor.
//
// Parameters:
//   - data: Input data to compress
//
// Returns:
//   - []byte: Size header followed by the compressed block
//   - error: Compression error if any
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: lz4 input of %d bytes", errs.ErrUnsupportedCompression, len(data))
	}

	dst := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data))) //nolint:gosec

	if len(data) == 0 {
		return dst[:lz4HeaderSize], nil
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4HeaderSize:])
	if err != nil {
		return nil, err
	}

	return dst[:lz4HeaderSize+n], nil
}

// Decompress decompresses a numcodecs LZ4 chunk.
//
// The size header gives the exact output length, so the output buffer is
// allocated once.
//
// Returns:
//   - []byte: Decompressed data
//   - error: ErrCorruptChunk if the header is missing or the block decodes to a different size
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: lz4 chunk shorter than its header", errs.ErrCorruptChunk)
	}

	size := int(binary.LittleEndian.Uint32(data))
	if size == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4HeaderSize:], buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrCorruptChunk, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4 block decoded to %d bytes, header says %d", errs.ErrCorruptChunk, n, size)
	}

	return buf, nil
}
