package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("chunk"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("chunk"), bb.Bytes())

	capBefore := cap(bb.B)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	tests := []struct {
		name     string
		initial  int
		required int
		minCap   int
	}{
		{"fits", 64, 32, 64},
		{"small buffer grows by default size", 8, 16, ChunkBufferDefaultSize},
		{"large request", 8, ChunkBufferDefaultSize * 2, ChunkBufferDefaultSize * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := NewByteBuffer(tt.initial)
			bb.Grow(tt.required)
			require.GreaterOrEqual(t, cap(bb.B), tt.minCap)
			require.Equal(t, 0, bb.Len())
		})
	}
}

func TestByteBuffer_GrowLargeByQuarter(t *testing.T) {
	size := ChunkBufferDefaultSize * 8
	bb := NewByteBuffer(size)
	_, _ = bb.Write(make([]byte, size))

	bb.Grow(1)
	require.Equal(t, size, bb.Len())
	require.Equal(t, size+size/4, cap(bb.B))
}

func TestByteBuffer_GrowKeepsContent(t *testing.T) {
	bb := NewByteBuffer(2)
	_, _ = bb.Write([]byte{1, 2})
	bb.Grow(1024)
	require.Equal(t, []byte{1, 2}, bb.Bytes())
}

func TestByteBuffer_CloneIsIndependent(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte{1, 2, 3})

	clone := bb.Clone()
	bb.Reset()
	_, _ = bb.Write([]byte{9, 9, 9})

	require.Equal(t, []byte{1, 2, 3}, clone)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("zarr"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.Equal(t, "zarr", out.String())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte("data"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len())

	p.Put(nil)

	big := NewByteBuffer(128)
	p.Put(big)
}

func TestChunkBufferPool(t *testing.T) {
	bb := GetChunkBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), ChunkBufferDefaultSize)
	PutChunkBuffer(bb)
}
