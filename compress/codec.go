package compress

import (
	"fmt"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
)

// Compressor compresses one encoded array chunk.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is owned by the caller unless documented otherwise
	// by the implementation. The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
//
// Decompress validates the data format and returns an error if the data is
// corrupted or was produced by a different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression and describes itself, so
// a store writer can record which algorithm and level produced a chunk.
type Codec interface {
	Compressor
	Decompressor

	// Type returns the compression algorithm.
	Type() format.CompressionType

	// Level returns the compression level or acceleration the codec is
	// configured with. Codecs without a level return 0.
	Level() int
}

// Default compression levels, matching the numcodecs defaults for each algorithm.
const (
	DefaultZstdLevel       = 1
	DefaultGzipLevel       = 1
	DefaultZlibLevel       = 1
	DefaultLZ4Acceleration = 1
)

// CreateCodec is a factory function that creates a Codec for the given compression
// type and level.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, LZ4, Gzip or Zlib)
//   - level: Algorithm specific level; 0 selects the default level
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrUnsupportedCompression for unknown types or out of range levels
func CreateCodec(compressionType format.CompressionType, level int) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		if level == 0 {
			level = DefaultZstdLevel
		}
		if level < 1 || level > 22 {
			return nil, fmt.Errorf("%w: zstd level %d", errs.ErrUnsupportedCompression, level)
		}

		return NewZstdCompressorLevel(level), nil
	case format.CompressionLZ4:
		if level == 0 {
			level = DefaultLZ4Acceleration
		}
		if level < 1 {
			return nil, fmt.Errorf("%w: lz4 acceleration %d", errs.ErrUnsupportedCompression, level)
		}

		return NewLZ4CompressorAcceleration(level), nil
	case format.CompressionGzip:
		if level == 0 {
			level = DefaultGzipLevel
		}
		if level < 1 || level > 9 {
			return nil, fmt.Errorf("%w: gzip level %d", errs.ErrUnsupportedCompression, level)
		}

		return NewGzipCompressorLevel(level), nil
	case format.CompressionZlib:
		if level == 0 {
			level = DefaultZlibLevel
		}
		if level < 1 || level > 9 {
			return nil, fmt.Errorf("%w: zlib level %d", errs.ErrUnsupportedCompression, level)
		}

		return NewZlibCompressorLevel(level), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
	format.CompressionZlib: NewZlibCompressor(),
}

// GetCodec retrieves a built-in Codec with the default level for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
