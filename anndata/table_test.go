package anndata

import (
	"fmt"
	"testing"

	"github.com/arloliu/annfix/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixedNames(t *testing.T) {
	assert.Equal(t, []string{"obs_0", "obs_1", "obs_2"}, PrefixedNames("obs", 3, 0))
	assert.Equal(t, []string{"cat_0", "cat_1", "cat_0"}, PrefixedNames("cat", 3, 2))
	assert.Empty(t, PrefixedNames("x", 0, 0))
}

func TestNewTable_UniqueIndex(t *testing.T) {
	_, err := NewTable([]string{"a", "b", "a"})
	require.ErrorIs(t, err, errs.ErrDuplicateKey)

	tbl := IndexedTable("var", 4)
	require.Equal(t, 4, tbl.Len())
	require.Equal(t, "var_3", tbl.Index()[3])
	require.Empty(t, tbl.ColumnNames())
}

func TestTable_AddColumn(t *testing.T) {
	tbl := IndexedTable("obs", 3)
	require.NoError(t, tbl.AddColumn(NewStringColumn("string", PrefixedNames("str", 3, 0))))

	require.ErrorIs(t, tbl.AddColumn(NewStringColumn("short", []string{"x"})), errs.ErrShapeMismatch)
	require.ErrorIs(t, tbl.AddColumn(NewStringColumn("string", make([]string, 3))), errs.ErrDuplicateKey)
	require.ErrorIs(t, tbl.AddColumn(NewStringColumn(IndexKey, make([]string, 3))), errs.ErrDuplicateKey)

	col, ok := tbl.Column("string")
	require.True(t, ok)
	require.Equal(t, KindString, col.Kind())
	require.Equal(t, []string{"str_0", "str_1", "str_2"}, col.Values())

	_, ok = tbl.Column("missing")
	require.False(t, ok)
	require.Equal(t, []string{"string"}, tbl.ColumnNames())
}

func TestCategoricalColumn(t *testing.T) {
	values := []string{"b", "a", "c", "a", "b"}
	col, err := NewCategoricalColumn("group", values)
	require.NoError(t, err)

	require.Equal(t, KindCategorical, col.Kind())
	require.Equal(t, []string{"a", "b", "c"}, col.Categories())
	require.Equal(t, []int8{1, 0, 2, 0, 1}, col.Codes())
	require.Equal(t, values, col.Values())
	require.Equal(t, 5, col.Len())
}

func TestCategoricalColumn_TooManyLevels(t *testing.T) {
	values := make([]string, 128)
	for i := range values {
		values[i] = fmt.Sprintf("level_%03d", i)
	}

	_, err := NewCategoricalColumn("wide", values)
	require.ErrorIs(t, err, errs.ErrTooManyCategories)

	_, err = NewCategoricalColumn("ok", values[:127])
	require.NoError(t, err)
}

func TestNewCategoricalFromCodes(t *testing.T) {
	col, err := NewCategoricalFromCodes("c", []string{"x", "y"}, []int8{1, -1, 0})
	require.NoError(t, err)
	require.Equal(t, []string{"y", "", "x"}, col.Values())

	_, err = NewCategoricalFromCodes("c", []string{"x"}, []int8{1})
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	_, err = NewCategoricalFromCodes("c", []string{"x", "x"}, nil)
	require.ErrorIs(t, err, errs.ErrDuplicateKey)
}

func TestTable_Equal(t *testing.T) {
	build := func(levels []string) *Table {
		tbl := IndexedTable("obs", 3)
		cat, err := NewCategoricalColumn("categorical", levels)
		require.NoError(t, err)
		require.NoError(t, tbl.AddColumn(cat))

		return tbl
	}

	a := build([]string{"x", "y", "x"})
	require.True(t, a.Equal(build([]string{"x", "y", "x"})))
	require.False(t, a.Equal(build([]string{"x", "y", "y"})))

	plain := IndexedTable("obs", 3)
	require.NoError(t, plain.AddColumn(NewStringColumn("categorical", []string{"x", "y", "x"})))
	require.False(t, a.Equal(plain))
	require.False(t, a.Equal(IndexedTable("obs", 3)))
}
