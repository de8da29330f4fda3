package fixture

import (
	"fmt"

	"github.com/arloliu/annfix/anndata"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
)

const (
	// DefaultNObs and DefaultNVar are the fixture dimensions.
	DefaultNObs = 50
	DefaultNVar = 25

	// embeddingWidth is the column count of obsm and varm entries.
	embeddingWidth = 2

	// categoryCount is the number of levels in the obs categorical column.
	categoryCount = 5
)

// Assemble builds the canonical nObs x nVar dataset.
//
// X is the float32_dense entry of a fresh collection. obs carries a
// categorical column (cat_0..cat_4 cycling) and a string column (str_i);
// var has only its index. obsm, obsp, varm, varp and layers each get their
// own nine-entry collection sized to the slot.
func Assemble(nObs, nVar int) (*anndata.Dataset, error) {
	obs := anndata.IndexedTable("obs", nObs)
	cat, err := anndata.NewCategoricalColumn("categorical", anndata.PrefixedNames("cat", nObs, categoryCount))
	if err != nil {
		return nil, err
	}
	if err := obs.AddColumn(cat); err != nil {
		return nil, err
	}
	if err := obs.AddColumn(anndata.NewStringColumn("string", anndata.PrefixedNames("str", nObs, 0))); err != nil {
		return nil, err
	}

	d, err := anndata.New(obs, anndata.IndexedTable("var", nVar))
	if err != nil {
		return nil, err
	}

	fresh, err := BuildCollection(nObs, nVar)
	if err != nil {
		return nil, err
	}
	x, ok := fresh.Get(CollectionKey(format.Float32, format.Dense))
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrNodeNotFound, CollectionKey(format.Float32, format.Dense))
	}
	if err := d.SetX(x); err != nil {
		return nil, err
	}

	slots := []struct {
		slot       anndata.Slot
		rows, cols int
	}{
		{anndata.SlotObsm, nObs, embeddingWidth},
		{anndata.SlotObsp, nObs, nObs},
		{anndata.SlotVarm, nVar, embeddingWidth},
		{anndata.SlotVarp, nVar, nVar},
		{anndata.SlotLayers, nObs, nVar},
	}
	for _, s := range slots {
		c, err := BuildCollection(s.rows, s.cols)
		if err != nil {
			return nil, err
		}
		if err := d.SetCollection(s.slot, c); err != nil {
			return nil, fmt.Errorf("%s: %w", s.slot, err)
		}
	}

	return d, nil
}

// AssembleVariant builds the canonical dataset and applies the X directive.
func AssembleVariant(nObs, nVar int, f format.XFormat) (*anndata.Dataset, error) {
	d, err := Assemble(nObs, nVar)
	if err != nil {
		return nil, err
	}
	if err := d.ApplyXFormat(f); err != nil {
		return nil, err
	}

	return d, nil
}
