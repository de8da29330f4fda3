package anndata

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/annfix/errs"
)

// IndexKey is the node name of a table's index array and the reserved
// column name.
const IndexKey = "_index"

// ColumnKind identifies how a column is stored.
type ColumnKind uint8

const (
	KindString ColumnKind = iota + 1
	KindCategorical
)

func (k ColumnKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is one named column of a Table.
type Column interface {
	Name() string
	Len() int
	Kind() ColumnKind

	// Values returns the column as strings, one per row.
	Values() []string
}

// StringColumn holds free text.
type StringColumn struct {
	name   string
	values []string
}

var _ Column = (*StringColumn)(nil)

// NewStringColumn creates a string column. values is used without copying.
func NewStringColumn(name string, values []string) *StringColumn {
	return &StringColumn{name: name, values: values}
}

func (c *StringColumn) Name() string { return c.name }
func (c *StringColumn) Len() int { return len(c.values) }
func (c *StringColumn) Kind() ColumnKind { return KindString }
func (c *StringColumn) Values() []string { return c.values }

// CategoricalColumn holds values drawn from a small set of levels, stored
// as int8 codes into the level list. Code -1 marks a missing value. The
// levels are unordered.
type CategoricalColumn struct {
	name       string
	categories []string
	codes      []int8
}

var _ Column = (*CategoricalColumn)(nil)

// NewCategoricalColumn encodes values as a categorical column whose levels
// are the sorted unique values.
//
// Returns:
//   - *CategoricalColumn: The encoded column
//   - error: ErrTooManyCategories if there are more than 127 levels
func NewCategoricalColumn(name string, values []string) (*CategoricalColumn, error) {
	categories := slices.Clone(values)
	slices.Sort(categories)
	categories = slices.Compact(categories)
	if len(categories) > math.MaxInt8 {
		return nil, fmt.Errorf("%w: column %q has %d levels", errs.ErrTooManyCategories, name, len(categories))
	}

	codes := make([]int8, len(values))
	for i, v := range values {
		pos, _ := slices.BinarySearch(categories, v)
		codes[i] = int8(pos) //nolint:gosec
	}

	return &CategoricalColumn{name: name, categories: categories, codes: codes}, nil
}

// NewCategoricalFromCodes rebuilds a categorical column from stored levels
// and codes.
func NewCategoricalFromCodes(name string, categories []string, codes []int8) (*CategoricalColumn, error) {
	if len(categories) > math.MaxInt8 {
		return nil, fmt.Errorf("%w: column %q has %d levels", errs.ErrTooManyCategories, name, len(categories))
	}
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: level %q of column %q", errs.ErrDuplicateKey, c, name)
		}
		seen[c] = struct{}{}
	}
	for i, code := range codes {
		if code < -1 || int(code) >= len(categories) {
			return nil, fmt.Errorf("%w: code %d at row %d of column %q", errs.ErrOutOfRange, code, i, name)
		}
	}

	return &CategoricalColumn{name: name, categories: categories, codes: codes}, nil
}

func (c *CategoricalColumn) Name() string { return c.name }
func (c *CategoricalColumn) Len() int { return len(c.codes) }
func (c *CategoricalColumn) Kind() ColumnKind { return KindCategorical }

// Categories returns the levels. The caller must not modify it.
func (c *CategoricalColumn) Categories() []string { return c.categories }

// Codes returns the per-row level index. The caller must not modify it.
func (c *CategoricalColumn) Codes() []int8 { return c.codes }

// Values decodes the column; missing values decode as "".
func (c *CategoricalColumn) Values() []string {
	out := make([]string, len(c.codes))
	for i, code := range c.codes {
		if code >= 0 {
			out[i] = c.categories[code]
		}
	}

	return out
}

// Table is an annotation table: a unique string index plus ordered, named
// columns of the same length.
type Table struct {
	index   []string
	columns []Column
	byName  map[string]int
}

// NewTable creates a table with the given index and no columns.
//
// Returns:
//   - *Table: The table
//   - error: ErrDuplicateKey if an index value repeats
func NewTable(index []string) (*Table, error) {
	seen := make(map[string]struct{}, len(index))
	for _, v := range index {
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("%w: index value %q", errs.ErrDuplicateKey, v)
		}
		seen[v] = struct{}{}
	}

	return &Table{index: index, byName: make(map[string]int)}, nil
}

// IndexedTable creates a column-less table indexed prefix_0 .. prefix_{n-1}.
func IndexedTable(prefix string, n int) *Table {
	t, _ := NewTable(PrefixedNames(prefix, n, 0))
	return t
}

// PrefixedNames returns prefix_k for k in [0, n). When mod is positive, k
// is i mod mod.
func PrefixedNames(prefix string, n, mod int) []string {
	out := make([]string, n)
	for i := range out {
		k := i
		if mod > 0 {
			k = i % mod
		}
		out[i] = fmt.Sprintf("%s_%d", prefix, k)
	}

	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Index returns the row labels. The caller must not modify it.
func (t *Table) Index() []string { return t.index }

// AddColumn appends c.
//
// Returns:
//   - error: ErrShapeMismatch if c's length differs from the index,
//     ErrDuplicateKey if the name is taken or reserved
func (t *Table) AddColumn(c Column) error {
	if c.Len() != len(t.index) {
		return fmt.Errorf("%w: column %q has %d rows, table has %d", errs.ErrShapeMismatch, c.Name(), c.Len(), len(t.index))
	}
	if _, dup := t.byName[c.Name()]; dup || c.Name() == IndexKey {
		return fmt.Errorf("%w: column %q", errs.ErrDuplicateKey, c.Name())
	}

	t.byName[c.Name()] = len(t.columns)
	t.columns = append(t.columns, c)

	return nil
}

// Column returns the column called name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}

	return t.columns[i], true
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []Column {
	return slices.Clone(t.columns)
}

// ColumnNames returns the column names in insertion order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}

	return names
}

// Equal reports whether t and o have the same index and the same columns in
// the same order, with equal kinds, levels and values.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.index, o.index) || len(t.columns) != len(o.columns) {
		return false
	}

	for i, c := range t.columns {
		oc := o.columns[i]
		if c.Name() != oc.Name() || c.Kind() != oc.Kind() {
			return false
		}
		if cat, ok := c.(*CategoricalColumn); ok {
			ocat, _ := oc.(*CategoricalColumn)
			if ocat == nil || !slices.Equal(cat.categories, ocat.categories) || !slices.Equal(cat.codes, ocat.codes) {
				return false
			}

			continue
		}
		if !slices.Equal(c.Values(), oc.Values()) {
			return false
		}
	}

	return true
}
