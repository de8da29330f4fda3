package compress

import (
	"testing"

	"github.com/arloliu/annfix/format"
)

func benchmarkCompress(b *testing.B, typ format.CompressionType) {
	codec, err := GetCodec(typ)
	if err != nil {
		b.Fatal(err)
	}
	data := diagonalChunk(50)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := codec.Compress(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompress_Zstd(b *testing.B) { benchmarkCompress(b, format.CompressionZstd) }
func BenchmarkCompress_LZ4(b *testing.B)  { benchmarkCompress(b, format.CompressionLZ4) }
func BenchmarkCompress_Gzip(b *testing.B) { benchmarkCompress(b, format.CompressionGzip) }
func BenchmarkCompress_Zlib(b *testing.B) { benchmarkCompress(b, format.CompressionZlib) }
