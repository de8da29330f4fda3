package fixture

import (
	"fmt"

	"github.com/arloliu/annfix/anndata"
	"github.com/arloliu/annfix/format"
)

// CollectionKey names a collection entry, e.g. "int64_csc".
func CollectionKey(dtype format.NumericType, enc format.Encoding) string {
	return dtype.String() + "_" + enc.String()
}

// BuildCollection materializes the rows x cols diagonal matrix in every
// numeric type and encoding. Entries are inserted type-major in the order
// of format.NumericTypes and format.Encodings:
//
//	int32_dense, int32_csc, int32_csr, int64_dense, ..., float32_csr
//
// Every call returns fresh matrices; nothing is shared between collections.
func BuildCollection(rows, cols int) (*anndata.Collection, error) {
	c := anndata.NewCollection()
	for _, dtype := range format.NumericTypes {
		base, err := Diagonal(dtype, rows, cols)
		if err != nil {
			return nil, err
		}

		for _, enc := range format.Encodings {
			m, err := base.Convert(enc)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", CollectionKey(dtype, enc), err)
			}
			if err := c.Set(CollectionKey(dtype, enc), m); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}
