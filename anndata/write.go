package anndata

import (
	"fmt"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/options"
	"github.com/arloliu/annfix/matrix"
	"github.com/arloliu/annfix/zarr"
)

// Node names of a dataset's elements below the root group.
const (
	nodeX    = "X"
	nodeObs  = "obs"
	nodeVar  = "var"
	nodeUns  = "uns"
	nodeData = "data"
	nodeIdx  = "indices"
	nodePtr  = "indptr"

	nodeCodes      = "codes"
	nodeCategories = "categories"
)

type writeConfig struct {
	zarrOpts []zarr.WriterOption
}

// WriteOption configures WriteZarr.
type WriteOption = options.Option[*writeConfig]

// WithZarrOptions passes chunk encoding options to the underlying zarr writer.
func WithZarrOptions(opts ...zarr.WriterOption) WriteOption {
	return options.NoError(func(c *writeConfig) {
		c.zarrOpts = append(c.zarrOpts, opts...)
	})
}

// WriteZarr persists d into store:
//
//	/            anndata root group
//	/X           primary matrix, only if present
//	/obs, /var   dataframes
//	/obsm ...    one dict group per slot, one matrix element per entry
//	/uns         empty dict
//
// Matrices keep their encoding and element type.
func WriteZarr(store zarr.Store, d *Dataset, opts ...WriteOption) error {
	cfg := &writeConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	w, err := zarr.NewWriter(store, cfg.zarrOpts...)
	if err != nil {
		return err
	}

	if err := w.CreateGroup("", EncodingAnnData.Attrs()); err != nil {
		return err
	}
	if x, ok := d.X(); ok {
		if err := writeMatrix(w, nodeX, x); err != nil {
			return err
		}
	}
	if err := writeTable(w, nodeObs, d.Obs()); err != nil {
		return err
	}
	if err := writeTable(w, nodeVar, d.Var()); err != nil {
		return err
	}
	for _, slot := range Slots {
		if err := writeCollection(w, slot.String(), d.Collection(slot)); err != nil {
			return err
		}
	}

	return w.CreateGroup(nodeUns, EncodingDict.Attrs())
}

func writeMatrix(w *zarr.Writer, p string, m *matrix.Matrix) error {
	rows, cols := m.Shape()

	switch m.Encoding() {
	case format.Dense:
		return w.WriteNumeric(p, []int{rows, cols}, m.Data(), EncodingArray.Attrs())
	case format.CSR, format.CSC:
		enc := EncodingCSR
		if m.Encoding() == format.CSC {
			enc = EncodingCSC
		}
		attrs := enc.Attrs()
		attrs["shape"] = []int{rows, cols}

		if err := w.CreateGroup(p, attrs); err != nil {
			return err
		}
		if err := w.WriteNumeric(p+"/"+nodeData, []int{m.Stored()}, m.Data(), nil); err != nil {
			return err
		}
		if err := w.WriteNumeric(p+"/"+nodeIdx, []int{len(m.Indices())}, matrix.Int32Values(m.Indices()), nil); err != nil {
			return err
		}

		return w.WriteNumeric(p+"/"+nodePtr, []int{len(m.Indptr())}, matrix.Int32Values(m.Indptr()), nil)
	default:
		return fmt.Errorf("%w: %s: %s", errs.ErrUnknownEncoding, p, m.Encoding())
	}
}

func writeTable(w *zarr.Writer, p string, t *Table) error {
	attrs := EncodingDataFrame.Attrs()
	attrs["_index"] = IndexKey
	attrs["column-order"] = t.ColumnNames()

	if err := w.CreateGroup(p, attrs); err != nil {
		return err
	}
	if err := w.WriteStrings(p+"/"+IndexKey, t.Index(), EncodingStringArray.Attrs()); err != nil {
		return err
	}

	for _, c := range t.Columns() {
		cp := p + "/" + c.Name()
		switch col := c.(type) {
		case *CategoricalColumn:
			if err := writeCategorical(w, cp, col); err != nil {
				return err
			}
		default:
			if err := w.WriteStrings(cp, c.Values(), EncodingStringArray.Attrs()); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeCategorical(w *zarr.Writer, p string, c *CategoricalColumn) error {
	attrs := EncodingCategorical.Attrs()
	attrs["ordered"] = false

	if err := w.CreateGroup(p, attrs); err != nil {
		return err
	}
	if err := w.WriteInt8(p+"/"+nodeCodes, c.Codes(), nil); err != nil {
		return err
	}

	return w.WriteStrings(p+"/"+nodeCategories, c.Categories(), EncodingStringArray.Attrs())
}

func writeCollection(w *zarr.Writer, p string, c *Collection) error {
	if err := w.CreateGroup(p, EncodingDict.Attrs()); err != nil {
		return err
	}
	for name, m := range c.All() {
		if err := writeMatrix(w, p+"/"+name, m); err != nil {
			return err
		}
	}

	return nil
}
