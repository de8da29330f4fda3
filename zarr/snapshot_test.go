package zarr

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	store, w := newTestWriter(t)
	require.NoError(t, w.WriteNumeric("X", []int{2, 2}, rangeValues(format.Float32, 4), nil))
	require.NoError(t, w.WriteStrings("idx", []string{"a", "b"}, nil))

	data, err := MarshalSnapshot(store)
	require.NoError(t, err)

	var pairs [][]string
	require.NoError(t, json.Unmarshal(data, &pairs))
	require.Equal(t, store.Len(), len(pairs))
	require.Equal(t, ".zattrs", pairs[0][0])

	loaded, err := LoadSnapshot(data)
	require.NoError(t, err)

	values, _, err := NewReader(loaded).ReadNumeric("X")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3}, valuesOf(values))

	names, err := NewReader(loaded).ReadStrings("idx")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestLoadSnapshot_Errors(t *testing.T) {
	_, err := LoadSnapshot([]byte("{"))
	require.ErrorIs(t, err, errs.ErrCorruptChunk)

	_, err = LoadSnapshot([]byte(`[["k", "***"]]`))
	require.ErrorIs(t, err, errs.ErrCorruptChunk)

	_, err = LoadSnapshot([]byte(`[["k", ""], ["k", ""]]`))
	require.ErrorIs(t, err, errs.ErrDuplicateKey)
}

func TestCopy(t *testing.T) {
	src, w := newTestWriter(t)
	require.NoError(t, w.WriteInt8("codes", []int8{1, -1}, nil))

	dst := NewDirStore(filepath.Join(t.TempDir(), "copy.zarr"))
	n, err := Copy(dst, src)
	require.NoError(t, err)
	require.Equal(t, src.Len(), n)

	codes, err := NewReader(dst).ReadInt8("codes")
	require.NoError(t, err)
	require.Equal(t, []int8{1, -1}, codes)
}
