package zarr

import (
	"testing"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/stretchr/testify/require"
)

func TestVLenUTF8_Layout(t *testing.T) {
	data, err := EncodeVLenUTF8([]string{"ab", ""})
	require.NoError(t, err)
	require.Equal(t, []byte{
		2, 0, 0, 0, // item count
		2, 0, 0, 0, 'a', 'b',
		0, 0, 0, 0,
	}, data)
}

func TestVLenUTF8_RoundTrip(t *testing.T) {
	tests := [][]string{
		{},
		{""},
		{"obs_0", "obs_1", "obs_49"},
		{"héllo", "日本語"},
	}
	for _, values := range tests {
		data, err := EncodeVLenUTF8(values)
		require.NoError(t, err)

		got, err := DecodeVLenUTF8(data)
		require.NoError(t, err)
		require.Equal(t, values, got)
	}
}

func TestVLenEncoder(t *testing.T) {
	enc := NewVLenEncoder()
	defer enc.Release()

	require.NoError(t, enc.Write("cat_0"))
	require.NoError(t, enc.WriteSlice([]string{"cat_1", "cat_2"}))
	require.Equal(t, 3, enc.Len())

	got, err := DecodeVLenUTF8(enc.Finish())
	require.NoError(t, err)
	require.Equal(t, []string{"cat_0", "cat_1", "cat_2"}, got)

	require.ErrorIs(t, enc.Write("\xff"), errs.ErrInvalidDType)
}

func TestDecodeVLenUTF8_Corrupt(t *testing.T) {
	tests := map[string][]byte{
		"short header":   {1, 0},
		"count too high": {9, 0, 0, 0, 0, 0, 0, 0},
		"item truncated": {1, 0, 0, 0, 5, 0, 0, 0, 'a'},
		"trailing bytes": {0, 0, 0, 0, 1},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeVLenUTF8(data)
			require.ErrorIs(t, err, errs.ErrCorruptChunk)
		})
	}
}

func TestEncodeVLenUTF8_MatchesWriterChunk(t *testing.T) {
	values := []string{"obs_0", "obs_1", "", "ü"}
	want, err := EncodeVLenUTF8(values)
	require.NoError(t, err)

	store := NewMemStore()
	w, err := NewWriter(store, WithCompression(format.CompressionNone))
	require.NoError(t, err)
	require.NoError(t, w.CreateGroup("", nil))
	require.NoError(t, w.WriteStrings("s", values, nil))

	got, err := store.Get("s/0")
	require.NoError(t, err)
	require.Equal(t, want, got)

	decoded, err := DecodeVLenUTF8(want)
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}
