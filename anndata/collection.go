package anndata

import (
	"fmt"
	"iter"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/matrix"
)

// Collection is an ordered set of uniquely named matrices.
type Collection struct {
	names []string
	items map[string]*matrix.Matrix
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{items: make(map[string]*matrix.Matrix)}
}

// Set adds m under name. Names are unique; adding one twice fails with
// errs.ErrDuplicateKey.
func (c *Collection) Set(name string, m *matrix.Matrix) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix %q", errs.ErrInvalidShape, name)
	}
	if _, dup := c.items[name]; dup {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateKey, name)
	}

	c.names = append(c.names, name)
	c.items[name] = m

	return nil
}

// Get returns the matrix called name.
func (c *Collection) Get(name string) (*matrix.Matrix, bool) {
	m, ok := c.items[name]
	return m, ok
}

// Names returns the names in insertion order.
func (c *Collection) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)

	return out
}

// Len returns the number of matrices.
func (c *Collection) Len() int {
	return len(c.names)
}

// All iterates over the entries in insertion order.
func (c *Collection) All() iter.Seq2[string, *matrix.Matrix] {
	return func(yield func(string, *matrix.Matrix) bool) {
		for _, name := range c.names {
			if !yield(name, c.items[name]) {
				return
			}
		}
	}
}

// Equal reports whether both collections hold the same names mapped to
// matrices of equal encoding, element type and values. Insertion order is
// not compared, since stores list children lexically.
func (c *Collection) Equal(o *Collection) bool {
	if c.Len() != o.Len() {
		return false
	}

	for name, m := range c.All() {
		om, ok := o.items[name]
		if !ok || m.Encoding() != om.Encoding() || !m.Equal(om) {
			return false
		}
	}

	return true
}
