package anndata

import (
	"fmt"
	"path"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/matrix"
	"github.com/arloliu/annfix/zarr"
)

// ReadZarr reads a dataset written by WriteZarr, or by any writer of the
// same element encodings. A store without X yields a dataset whose X is
// absent.
func ReadZarr(store zarr.Store) (*Dataset, error) {
	elem, err := DefaultRegistry().ReadElement(zarr.NewReader(store), "")
	if err != nil {
		return nil, err
	}

	d, ok := elem.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("%w: root is %T, not an annotated dataset", errs.ErrUnsupportedElement, elem)
	}

	return d, nil
}

func readAs[T any](reg *Registry, r *zarr.Reader, p, what string) (T, error) {
	var zero T

	elem, err := reg.ReadElement(r, p)
	if err != nil {
		return zero, err
	}
	v, ok := elem.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, want %s", errs.ErrUnsupportedElement, p, elem, what)
	}

	return v, nil
}

func child(p, name string) string {
	if p == "" {
		return name
	}

	return path.Join(p, name)
}

func (reg *Registry) readAnnData(r *zarr.Reader, p string, _ zarr.Attrs) (any, error) {
	obs, err := readAs[*Table](reg, r, child(p, nodeObs), "dataframe")
	if err != nil {
		return nil, err
	}
	vars, err := readAs[*Table](reg, r, child(p, nodeVar), "dataframe")
	if err != nil {
		return nil, err
	}

	d, err := New(obs, vars)
	if err != nil {
		return nil, err
	}

	if xp := child(p, nodeX); r.Exists(xp) {
		x, err := readAs[*matrix.Matrix](reg, r, xp, "matrix")
		if err != nil {
			return nil, err
		}
		if err := d.SetX(x); err != nil {
			return nil, err
		}
	}

	for _, slot := range Slots {
		sp := child(p, slot.String())
		if !r.Exists(sp) {
			continue
		}
		c, err := readAs[*Collection](reg, r, sp, "dict of matrices")
		if err != nil {
			return nil, err
		}
		if err := d.SetCollection(slot, c); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (reg *Registry) readDataFrame(r *zarr.Reader, p string, attrs zarr.Attrs) (any, error) {
	indexKey := attrs.String("_index")
	if indexKey == "" {
		indexKey = IndexKey
	}
	index, err := r.ReadStrings(child(p, indexKey))
	if err != nil {
		return nil, err
	}

	t, err := NewTable(index)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	order, err := attrs.Strings("column-order")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	for _, name := range order {
		elem, err := reg.ReadElement(r, child(p, name))
		if err != nil {
			return nil, err
		}

		var col Column
		switch v := elem.(type) {
		case []string:
			col = NewStringColumn(name, v)
		case *CategoricalColumn:
			col = v
		default:
			return nil, fmt.Errorf("%w: column %s/%s is %T", errs.ErrUnsupportedElement, p, name, elem)
		}
		if err := t.AddColumn(col); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	return t, nil
}

func readStringArray(r *zarr.Reader, p string, _ zarr.Attrs) (any, error) {
	return r.ReadStrings(p)
}

func (reg *Registry) readCategorical(r *zarr.Reader, p string, _ zarr.Attrs) (any, error) {
	codes, err := r.ReadInt8(child(p, nodeCodes))
	if err != nil {
		return nil, err
	}
	categories, err := readAs[[]string](reg, r, child(p, nodeCategories), "string-array")
	if err != nil {
		return nil, err
	}

	return NewCategoricalFromCodes(path.Base(p), categories, codes)
}

func readDense(r *zarr.Reader, p string, _ zarr.Attrs) (any, error) {
	values, shape, err := r.ReadNumeric(p)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: dense matrix %s has shape %v", errs.ErrInvalidShape, p, shape)
	}

	return matrix.NewDenseFrom(shape[0], shape[1], values)
}

func readSparse(r *zarr.Reader, p string, attrs zarr.Attrs) (any, error) {
	enc := format.CSR
	if attrs.String(attrEncodingType) == EncodingCSC.Type {
		enc = format.CSC
	}

	shape, err := attrs.Ints("shape")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("%w: sparse matrix %s has shape %v", errs.ErrInvalidShape, p, shape)
	}

	data, _, err := r.ReadNumeric(child(p, nodeData))
	if err != nil {
		return nil, err
	}
	indices, err := readIndexArray(r, child(p, nodeIdx))
	if err != nil {
		return nil, err
	}
	indptr, err := readIndexArray(r, child(p, nodePtr))
	if err != nil {
		return nil, err
	}

	m, err := matrix.NewSparse(enc, shape[0], shape[1], data, indices, indptr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return m, nil
}

// readIndexArray reads an int32 index array. int64 arrays, which other
// writers use for large matrices, are narrowed when their values fit.
func readIndexArray(r *zarr.Reader, p string) ([]int32, error) {
	values, _, err := r.ReadNumeric(p)
	if err != nil {
		return nil, err
	}

	switch values.DType() {
	case format.Int32, format.Int64:
	default:
		return nil, fmt.Errorf("%w: index array %s is %s", errs.ErrInvalidDType, p, values.DType())
	}

	out := make([]int32, values.Len())
	for i := range out {
		v := values.At(i)
		if v < 0 || v > float64(1<<31-1) {
			return nil, fmt.Errorf("%w: index %v in %s", errs.ErrInvalidSparse, v, p)
		}
		out[i] = int32(v)
	}

	return out, nil
}

func (reg *Registry) readDict(r *zarr.Reader, p string, _ zarr.Attrs) (any, error) {
	names, err := r.Children(p)
	if err != nil {
		return nil, err
	}

	c := NewCollection()
	for _, name := range names {
		m, err := readAs[*matrix.Matrix](reg, r, child(p, name), "matrix")
		if err != nil {
			return nil, err
		}
		if err := c.Set(name, m); err != nil {
			return nil, err
		}
	}

	return c, nil
}
