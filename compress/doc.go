// Package compress provides the chunk compressors of annfix zarr stores.
//
// Every zarr array chunk is encoded to raw little- or big-endian bytes and
// then passed through one Codec. Each codec here produces exactly the byte
// stream of the numcodecs codec with the same identifier, so stores written
// by annfix are readable by zarr-python, zarrita and other zarr v2 readers:
//
//   - None (format.CompressionNone): chunks are stored verbatim; the array
//     metadata records a null compressor.
//   - Zstd (format.CompressionZstd): plain zstd frames, numcodecs id "zstd".
//     This is the default for fixtures.
//   - LZ4 (format.CompressionLZ4): 4-byte little-endian size header plus one
//     LZ4 block, numcodecs id "lz4".
//   - Gzip (format.CompressionGzip): one gzip member, numcodecs id "gzip".
//   - Zlib (format.CompressionZlib): one zlib stream, numcodecs id "zlib".
//
// # Architecture
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	    Type() format.CompressionType
//	    Level() int
//	}
//
// Use CreateCodec to build a codec for a given type and level, or GetCodec
// for the shared default-level instances:
//
//	codec, err := compress.CreateCodec(format.CompressionZstd, 3)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(chunk)
//
// # Zstd backends
//
// The default zstd implementation is the pure Go klauspost/compress encoder
// with pooled encoders and decoders. Building with the gozstd tag (and cgo)
// switches to the valyala/gozstd libzstd binding. Both emit standard frames.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use.
package compress
