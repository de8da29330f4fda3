//go:build !gozstd || !cgo

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders. The klauspost decoder is designed to
// run without allocations after a warmup, so it is kept and reused.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPools holds one encoder pool per klauspost speed level, since
// the level is fixed when an encoder is created.
var zstdEncoderPools sync.Map // zstd.EncoderLevel -> *sync.Pool

func zstdEncoderPool(level int) *sync.Pool {
	encLevel := zstd.EncoderLevelFromZstd(level)
	if p, ok := zstdEncoderPools.Load(encLevel); ok {
		return p.(*sync.Pool) //nolint:forcetypeassert
	}

	p := &sync.Pool{
		New: func() any {
			encoder, err := zstd.NewWriter(nil,
				zstd.WithEncoderLevel(encLevel),
				zstd.WithEncoderConcurrency(1),
				zstd.WithEncoderCRC(false),
			)
			if err != nil {
				panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
			}

			return encoder
		},
	}
	actual, _ := zstdEncoderPools.LoadOrStore(encLevel, p)

	return actual.(*sync.Pool) //nolint:forcetypeassert
}

// Compress compresses the input data using Zstandard compression.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	p := zstdEncoderPool(c.level)
	encoder, _ := p.Get().(*zstd.Encoder)
	defer p.Put(encoder)

	// EncodeAll is stateless, so a pooled encoder is safe here.
	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstd-compressed data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	decompressed, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
