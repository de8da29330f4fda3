package fixture

import (
	"fmt"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/matrix"
)

// Gap returns the diagonal index that Diagonal leaves at zero.
func Gap(rows, cols int) int {
	return min(rows/2, cols/2)
}

// Diagonal builds a dense rows x cols matrix of the given type whose only
// non-zero entries are (i, i) = i for i < min(rows, cols), except i == Gap.
//
// Row 0 is zero because its diagonal value is 0, and row Gap is zero because
// its diagonal entry is skipped, giving sparse encodings empty major slices at
// both ends of the first half.
func Diagonal(dtype format.NumericType, rows, cols int) (*matrix.Matrix, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownNumericType, dtype)
	}

	m, err := matrix.NewDense(dtype, rows, cols)
	if err != nil {
		return nil, err
	}

	gap := Gap(rows, cols)
	for i := range min(rows, cols) {
		if i == gap {
			continue
		}
		if err := m.Set(i, i, float64(i)); err != nil {
			return nil, err
		}
	}

	return m, nil
}
