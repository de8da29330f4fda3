package anndata

import (
	"fmt"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/matrix"
)

// Slot names a matrix collection attached to a dataset.
type Slot uint8

const (
	SlotObsm Slot = iota + 1
	SlotObsp
	SlotVarm
	SlotVarp
	SlotLayers
)

// Slots lists every slot in storage order.
var Slots = []Slot{SlotObsm, SlotObsp, SlotVarm, SlotVarp, SlotLayers}

func (s Slot) String() string {
	switch s {
	case SlotObsm:
		return "obsm"
	case SlotObsp:
		return "obsp"
	case SlotVarm:
		return "varm"
	case SlotVarp:
		return "varp"
	case SlotLayers:
		return "layers"
	default:
		return "unknown"
	}
}

// Dataset is an annotated matrix: an optional primary matrix X of shape
// (n_obs, n_var), the obs and var annotation tables, and matrix collections
// whose shapes are tied to those axes:
//
//	obsm   (n_obs, k)      obsp  (n_obs, n_obs)
//	varm   (n_var, k)      varp  (n_var, n_var)
//	layers (n_obs, n_var)
//
// Every attachment is checked against the axes. X may be replaced,
// re-encoded or removed; the rest is append-only.
type Dataset struct {
	x     *matrix.Matrix
	obs   *Table
	vars  *Table
	slots map[Slot]*Collection
}

// New creates a dataset without X over the given annotation tables.
func New(obs, vars *Table) (*Dataset, error) {
	if obs == nil || vars == nil {
		return nil, fmt.Errorf("%w: nil annotation table", errs.ErrInvalidShape)
	}

	d := &Dataset{obs: obs, vars: vars, slots: make(map[Slot]*Collection, len(Slots))}
	for _, s := range Slots {
		d.slots[s] = NewCollection()
	}

	return d, nil
}

// NObs returns the number of observations (rows).
func (d *Dataset) NObs() int { return d.obs.Len() }

// NVar returns the number of variables (columns).
func (d *Dataset) NVar() int { return d.vars.Len() }

// Obs returns the observation annotations.
func (d *Dataset) Obs() *Table { return d.obs }

// Var returns the variable annotations.
func (d *Dataset) Var() *Table { return d.vars }

// X returns the primary matrix and whether it is present.
func (d *Dataset) X() (*matrix.Matrix, bool) {
	return d.x, d.x != nil
}

// SetX sets the primary matrix, which must be (n_obs, n_var).
func (d *Dataset) SetX(m *matrix.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil X", errs.ErrInvalidShape)
	}
	if err := checkShape("X", m, d.NObs(), d.NVar()); err != nil {
		return err
	}
	d.x = m

	return nil
}

// RemoveX detaches the primary matrix.
func (d *Dataset) RemoveX() {
	d.x = nil
}

// ReencodeX stores X in enc without changing its values.
func (d *Dataset) ReencodeX(enc format.Encoding) error {
	if d.x == nil {
		return fmt.Errorf("%w: dataset has no X", errs.ErrNodeNotFound)
	}

	m, err := d.x.Convert(enc)
	if err != nil {
		return err
	}
	d.x = m

	return nil
}

// ApplyXFormat applies a primary-matrix directive: CSC, CSR and Dense
// re-encode X, Omit removes it.
//
// Returns:
//   - error: ErrUnsupportedFormat for any other directive, or the
//     ReencodeX error when X is absent
func (d *Dataset) ApplyXFormat(f format.XFormat) error {
	if f == format.XFormatOmit {
		d.RemoveX()
		return nil
	}

	enc, ok := f.Encoding()
	if !ok {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedFormat, f)
	}

	return d.ReencodeX(enc)
}

// Collection returns the collection attached at slot. Unknown slots return
// an empty collection.
func (d *Dataset) Collection(slot Slot) *Collection {
	if c, ok := d.slots[slot]; ok {
		return c
	}

	return NewCollection()
}

// Attach adds m under name to slot after checking its shape.
func (d *Dataset) Attach(slot Slot, name string, m *matrix.Matrix) error {
	c, ok := d.slots[slot]
	if !ok {
		return fmt.Errorf("%w: slot %d", errs.ErrUnsupportedElement, slot)
	}
	if m == nil {
		return fmt.Errorf("%w: nil matrix %s/%s", errs.ErrInvalidShape, slot, name)
	}
	if err := d.checkSlotShape(slot, name, m); err != nil {
		return err
	}

	return c.Set(name, m)
}

// SetCollection replaces the collection at slot. Either every entry fits and
// the replacement happens, or the dataset is left unchanged.
func (d *Dataset) SetCollection(slot Slot, c *Collection) error {
	if _, ok := d.slots[slot]; !ok {
		return fmt.Errorf("%w: slot %d", errs.ErrUnsupportedElement, slot)
	}
	for name, m := range c.All() {
		if err := d.checkSlotShape(slot, name, m); err != nil {
			return err
		}
	}
	d.slots[slot] = c

	return nil
}

func (d *Dataset) checkSlotShape(slot Slot, name string, m *matrix.Matrix) error {
	where := slot.String() + "/" + name

	switch slot {
	case SlotObsm:
		return checkShape(where, m, d.NObs(), -1)
	case SlotVarm:
		return checkShape(where, m, d.NVar(), -1)
	case SlotObsp:
		return checkShape(where, m, d.NObs(), d.NObs())
	case SlotVarp:
		return checkShape(where, m, d.NVar(), d.NVar())
	case SlotLayers:
		return checkShape(where, m, d.NObs(), d.NVar())
	default:
		return fmt.Errorf("%w: slot %d", errs.ErrUnsupportedElement, slot)
	}
}

// checkShape compares m against (rows, cols); a negative cols accepts any width.
func checkShape(where string, m *matrix.Matrix, rows, cols int) error {
	r, c := m.Shape()
	if r != rows || (cols >= 0 && c != cols) {
		want := fmt.Sprintf("%dx%d", rows, cols)
		if cols < 0 {
			want = fmt.Sprintf("%dxk", rows)
		}

		return fmt.Errorf("%w: %s is %dx%d, want %s", errs.ErrShapeMismatch, where, r, c, want)
	}

	return nil
}

// Equal reports whether both datasets hold the same X (encoding included),
// the same annotation tables and equal collections in every slot.
func (d *Dataset) Equal(o *Dataset) bool {
	if (d.x == nil) != (o.x == nil) {
		return false
	}
	if d.x != nil && (d.x.Encoding() != o.x.Encoding() || !d.x.Equal(o.x)) {
		return false
	}
	if !d.obs.Equal(o.obs) || !d.vars.Equal(o.vars) {
		return false
	}
	for _, s := range Slots {
		if !d.Collection(s).Equal(o.Collection(s)) {
			return false
		}
	}

	return true
}
