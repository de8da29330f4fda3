package fixture

import (
	"testing"

	"github.com/arloliu/annfix/anndata"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantKeys = []string{
	"int32_dense", "int32_csc", "int32_csr",
	"int64_dense", "int64_csc", "int64_csr",
	"float32_dense", "float32_csc", "float32_csr",
}

func TestCollectionKey(t *testing.T) {
	assert.Equal(t, "int64_csc", CollectionKey(format.Int64, format.CSC))
	assert.Equal(t, "float32_dense", CollectionKey(format.Float32, format.Dense))
}

func TestBuildCollection(t *testing.T) {
	c, err := BuildCollection(50, 25)
	require.NoError(t, err)
	require.Equal(t, wantKeys, c.Names())

	want, err := Diagonal(format.Float32, 50, 25)
	require.NoError(t, err)

	for _, dtype := range format.NumericTypes {
		for _, enc := range format.Encodings {
			key := CollectionKey(dtype, enc)
			m, ok := c.Get(key)
			require.True(t, ok, key)
			assert.Equal(t, dtype, m.DType(), key)
			assert.Equal(t, enc, m.Encoding(), key)
			assert.Equal(t, 50, m.Rows(), key)
			assert.Equal(t, 25, m.Cols(), key)

			// Equal compares dtype as well, so compare the values directly.
			assert.Equal(t, want.Float64s(), m.Float64s(), key)
		}
	}
}

func TestBuildCollection_ZeroRowsInEveryEncoding(t *testing.T) {
	shapes := [][2]int{{50, 25}, {50, 50}, {25, 2}, {7, 9}}
	for _, shape := range shapes {
		c, err := BuildCollection(shape[0], shape[1])
		require.NoError(t, err)

		for name, m := range c.All() {
			for _, i := range []int{0, Gap(shape[0], shape[1])} {
				row, err := m.Row(i)
				require.NoError(t, err)
				for j, v := range row {
					require.Zero(t, v, "%v %s (%d,%d)", shape, name, i, j)
				}
			}
		}
	}
}

func TestBuildCollection_SparseDropsZeros(t *testing.T) {
	c, err := BuildCollection(6, 4)
	require.NoError(t, err)

	// (1,1)=1 and (3,3)=3 survive; (0,0) is zero and (2,2) is the gap.
	for _, key := range []string{"int32_csr", "int64_csc", "float32_csr"} {
		m, ok := c.Get(key)
		require.True(t, ok)
		require.Equal(t, 2, m.Stored(), key)
	}
	m, _ := c.Get("int32_dense")
	require.Equal(t, 24, m.Stored())
}

func TestBuildCollection_Fresh(t *testing.T) {
	a, err := BuildCollection(4, 4)
	require.NoError(t, err)
	b, err := BuildCollection(4, 4)
	require.NoError(t, err)

	m, _ := a.Get("int32_dense")
	require.NoError(t, m.Set(3, 0, 7))

	other, _ := b.Get("int32_dense")
	v, err := other.At(3, 0)
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestAssemble_Tables(t *testing.T) {
	d, err := Assemble(DefaultNObs, DefaultNVar)
	require.NoError(t, err)
	require.Equal(t, 50, d.NObs())
	require.Equal(t, 25, d.NVar())

	obs := d.Obs()
	require.Equal(t, "obs_0", obs.Index()[0])
	require.Equal(t, "obs_49", obs.Index()[49])
	require.Equal(t, []string{"categorical", "string"}, obs.ColumnNames())

	col, ok := obs.Column("categorical")
	require.True(t, ok)
	cat, ok := col.(*anndata.CategoricalColumn)
	require.True(t, ok)
	require.Equal(t, []string{"cat_0", "cat_1", "cat_2", "cat_3", "cat_4"}, cat.Categories())
	require.Equal(t, anndata.PrefixedNames("cat", 50, 5), cat.Values())
	require.Equal(t, "cat_2", cat.Values()[7])

	col, ok = obs.Column("string")
	require.True(t, ok)
	require.Equal(t, anndata.KindString, col.Kind())
	require.Equal(t, "str_13", col.Values()[13])

	require.Equal(t, "var_24", d.Var().Index()[24])
	require.Empty(t, d.Var().ColumnNames())
}

func TestAssemble_Slots(t *testing.T) {
	d, err := Assemble(DefaultNObs, DefaultNVar)
	require.NoError(t, err)

	x, ok := d.X()
	require.True(t, ok)
	require.Equal(t, format.Dense, x.Encoding())
	require.Equal(t, format.Float32, x.DType())

	tests := []struct {
		slot       anndata.Slot
		rows, cols int
	}{
		{anndata.SlotObsm, 50, 2},
		{anndata.SlotObsp, 50, 50},
		{anndata.SlotVarm, 25, 2},
		{anndata.SlotVarp, 25, 25},
		{anndata.SlotLayers, 50, 25},
	}
	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			c := d.Collection(tt.slot)
			require.Equal(t, wantKeys, c.Names())
			for name, m := range c.All() {
				assert.Equal(t, tt.rows, m.Rows(), name)
				assert.Equal(t, tt.cols, m.Cols(), name)
			}
		})
	}

	for _, slot := range []anndata.Slot{anndata.SlotObsm, anndata.SlotVarm} {
		for name, m := range d.Collection(slot).All() {
			require.Zero(t, m.NNZ(), "%s/%s", slot, name)
		}
	}

	// X is not shared with the layers entry it equals.
	layer, ok := d.Collection(anndata.SlotLayers).Get("float32_dense")
	require.True(t, ok)
	require.True(t, x.Equal(layer))
	require.NoError(t, x.Set(1, 1, 99))
	v, err := layer.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestAssembleVariant(t *testing.T) {
	for _, f := range format.XFormats {
		t.Run(f.String(), func(t *testing.T) {
			d, err := AssembleVariant(10, 6, f)
			require.NoError(t, err)

			x, ok := d.X()
			enc, wantX := f.Encoding()
			require.Equal(t, wantX, ok)
			if !ok {
				return
			}
			require.Equal(t, enc, x.Encoding())

			want, err := Diagonal(format.Float32, 10, 6)
			require.NoError(t, err)
			require.True(t, x.Equal(want))
		})
	}

	_, err := AssembleVariant(10, 6, format.XFormat(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
}

func TestAssembleVariant_OmitMatchesDense(t *testing.T) {
	omit, err := AssembleVariant(DefaultNObs, DefaultNVar, format.XFormatOmit)
	require.NoError(t, err)
	dense, err := AssembleVariant(DefaultNObs, DefaultNVar, format.XFormatDense)
	require.NoError(t, err)

	_, ok := omit.X()
	require.False(t, ok)
	require.True(t, omit.Obs().Equal(dense.Obs()))
	require.True(t, omit.Var().Equal(dense.Var()))
	for _, slot := range anndata.Slots {
		require.True(t, omit.Collection(slot).Equal(dense.Collection(slot)), slot.String())
	}

	dense.RemoveX()
	require.True(t, omit.Equal(dense))
}

func BenchmarkAssemble(b *testing.B) {
	for b.Loop() {
		_, _ = Assemble(DefaultNObs, DefaultNVar)
	}
}
