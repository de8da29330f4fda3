package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
			assert.Equal(t, tt.id, Sum([]byte(tt.data)))
		})
	}
}

func TestDigest_Deterministic(t *testing.T) {
	a := NewDigest()
	a.Add(".zgroup", []byte(`{"zarr_format":2}`))
	a.Add("X/0.0", []byte{1, 2, 3})

	b := NewDigest()
	b.Add(".zgroup", []byte(`{"zarr_format":2}`))
	b.Add("X/0.0", []byte{1, 2, 3})

	require.Equal(t, a.Sum64(), b.Sum64())
	require.Equal(t, a.Hex(), b.Hex())
	require.Len(t, a.Hex(), 16)
	require.Equal(t, 2, a.Entries())
}

func TestDigest_EntryBoundaries(t *testing.T) {
	a := NewDigest()
	a.Add("ab", []byte("c"))

	b := NewDigest()
	b.Add("a", []byte("bc"))

	require.NotEqual(t, a.Sum64(), b.Sum64())
}

func TestDigest_OrderMatters(t *testing.T) {
	a := NewDigest()
	a.Add("x", nil)
	a.Add("y", nil)

	b := NewDigest()
	b.Add("y", nil)
	b.Add("x", nil)

	require.NotEqual(t, a.Sum64(), b.Sum64())
}

func BenchmarkDigest(b *testing.B) {
	chunk := make([]byte, 4096)
	for b.Loop() {
		d := NewDigest()
		d.Add("X/0.0", chunk)
		_ = d.Sum64()
	}
}
