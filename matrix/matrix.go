package matrix

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/pool"
)

// Matrix is a two-dimensional numeric matrix stored dense, CSR or CSC.
//
// Dense matrices keep rows*cols values in row-major order. Compressed
// matrices keep only stored entries: for CSR the major axis is rows, for CSC
// it is columns; indptr has major+1 offsets into indices (minor positions)
// and data. Indices are int32 and strictly increasing within each major
// slice.
//
// A Matrix is never modified by conversions; Convert always returns a new
// value.
type Matrix struct {
	rows    int
	cols    int
	enc     format.Encoding
	data    Values
	indices []int32
	indptr  []int32
}

// NewDense allocates a zero dense matrix.
func NewDense(dtype format.NumericType, rows, cols int) (*Matrix, error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}

	data, err := NewValues(dtype, rows*cols)
	if err != nil {
		return nil, err
	}

	return &Matrix{rows: rows, cols: cols, enc: format.Dense, data: data}, nil
}

// NewDenseFrom wraps row-major data as a dense rows x cols matrix.
func NewDenseFrom(rows, cols int, data Values) (*Matrix, error) {
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}
	if data == nil || data.Len() != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d dense matrix needs %d values", errs.ErrInvalidShape, rows, cols, rows*cols)
	}

	return &Matrix{rows: rows, cols: cols, enc: format.Dense, data: data}, nil
}

// NewSparse builds a CSR or CSC matrix from its compressed components,
// validating their structure. The slices are used without copying.
//
// Returns:
//   - *Matrix: the compressed matrix
//   - error: ErrUnknownEncoding for a dense enc, ErrInvalidShape, or
//     ErrInvalidSparse if indptr/indices are inconsistent
func NewSparse(enc format.Encoding, rows, cols int, data Values, indices, indptr []int32) (*Matrix, error) {
	if !enc.IsSparse() {
		return nil, fmt.Errorf("%w: %s is not a compressed encoding", errs.ErrUnknownEncoding, enc)
	}
	if err := validateShape(rows, cols); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: nil data", errs.ErrInvalidSparse)
	}

	m := &Matrix{rows: rows, cols: cols, enc: enc, data: data, indices: indices, indptr: indptr}
	if err := m.validateSparse(); err != nil {
		return nil, err
	}

	return m, nil
}

func validateShape(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: %dx%d", errs.ErrInvalidShape, rows, cols)
	}
	if cols != 0 && rows > math.MaxInt32/cols {
		return fmt.Errorf("%w: %dx%d exceeds int32 indexing", errs.ErrInvalidShape, rows, cols)
	}

	return nil
}

func (m *Matrix) validateSparse() error {
	major, minor := m.majorMinor()
	if len(m.indptr) != major+1 {
		return fmt.Errorf("%w: indptr has %d entries, want %d", errs.ErrInvalidSparse, len(m.indptr), major+1)
	}
	if m.indptr[0] != 0 {
		return fmt.Errorf("%w: indptr[0] = %d", errs.ErrInvalidSparse, m.indptr[0])
	}
	if int(m.indptr[major]) != len(m.indices) || len(m.indices) != m.data.Len() {
		return fmt.Errorf("%w: indptr ends at %d with %d indices and %d values",
			errs.ErrInvalidSparse, m.indptr[major], len(m.indices), m.data.Len())
	}

	for k := range major {
		start, end := m.indptr[k], m.indptr[k+1]
		if end < start {
			return fmt.Errorf("%w: indptr decreases at %d", errs.ErrInvalidSparse, k)
		}
		for p := start; p < end; p++ {
			idx := m.indices[p]
			if idx < 0 || int(idx) >= minor {
				return fmt.Errorf("%w: index %d outside [0, %d)", errs.ErrInvalidSparse, idx, minor)
			}
			if p > start && idx <= m.indices[p-1] {
				return fmt.Errorf("%w: indices of %s %d are not strictly increasing", errs.ErrInvalidSparse, m.majorName(), k)
			}
		}
	}

	return nil
}

// majorMinor returns the sizes of the compressed and the indexed axis.
// Dense matrices are treated as row-major.
func (m *Matrix) majorMinor() (int, int) {
	if m.enc == format.CSC {
		return m.cols, m.rows
	}

	return m.rows, m.cols
}

func (m *Matrix) majorName() string {
	if m.enc == format.CSC {
		return "column"
	}

	return "row"
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// DType returns the element type.
func (m *Matrix) DType() format.NumericType { return m.data.DType() }

// Encoding returns the storage layout.
func (m *Matrix) Encoding() format.Encoding { return m.enc }

// Data returns the stored values: all entries for dense matrices, the stored
// entries for compressed ones. The caller must not modify it.
func (m *Matrix) Data() Values { return m.data }

// Indices returns the minor-axis positions of stored entries, nil for dense
// matrices. The caller must not modify it.
func (m *Matrix) Indices() []int32 { return m.indices }

// Indptr returns the major-axis offsets, nil for dense matrices. The caller
// must not modify it.
func (m *Matrix) Indptr() []int32 { return m.indptr }

// Stored returns the number of stored entries: rows*cols for dense matrices.
func (m *Matrix) Stored() int { return m.data.Len() }

// NNZ returns the number of non-zero entries, whatever the encoding.
func (m *Matrix) NNZ() int {
	n := 0
	for i := range m.data.Len() {
		if m.data.At(i) != 0 {
			n++
		}
	}

	return n
}

// At returns the entry at row i, column j.
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", errs.ErrOutOfRange, i, j, m.rows, m.cols)
	}

	return m.at(i, j), nil
}

func (m *Matrix) at(i, j int) float64 {
	switch m.enc {
	case format.CSR:
		return m.sparseAt(i, j)
	case format.CSC:
		return m.sparseAt(j, i)
	default:
		return m.data.At(i*m.cols + j)
	}
}

func (m *Matrix) sparseAt(major, minor int) float64 {
	start, end := m.indptr[major], m.indptr[major+1]
	pos, found := slices.BinarySearch(m.indices[start:end], int32(minor)) //nolint:gosec
	if !found {
		return 0
	}

	return m.data.At(int(start) + pos)
}

// Set stores v at row i, column j of a dense matrix.
func (m *Matrix) Set(i, j int, v float64) error {
	if m.enc != format.Dense {
		return fmt.Errorf("%w: Set on %s", errs.ErrDenseOnly, m.enc)
	}
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", errs.ErrOutOfRange, i, j, m.rows, m.cols)
	}
	m.data.Set(i*m.cols+j, v)

	return nil
}

// Row returns row i as float64 values, for any encoding.
func (m *Matrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("%w: row %d of %d", errs.ErrOutOfRange, i, m.rows)
	}

	row := make([]float64, m.cols)
	if m.enc == format.CSR {
		start, end := m.indptr[i], m.indptr[i+1]
		for p := start; p < end; p++ {
			row[m.indices[p]] = m.data.At(int(p))
		}

		return row, nil
	}

	for j := range row {
		row[j] = m.at(i, j)
	}

	return row, nil
}

// Major returns the stored minor positions and values of major slice k of a
// compressed matrix: row k for CSR, column k for CSC.
func (m *Matrix) Major(k int) ([]int32, []float64, error) {
	if !m.enc.IsSparse() {
		return nil, nil, fmt.Errorf("%w: Major on dense matrix", errs.ErrUnknownEncoding)
	}
	major, _ := m.majorMinor()
	if k < 0 || k >= major {
		return nil, nil, fmt.Errorf("%w: %s %d of %d", errs.ErrOutOfRange, m.majorName(), k, major)
	}

	start, end := m.indptr[k], m.indptr[k+1]
	idx := slices.Clone(m.indices[start:end])
	vals := make([]float64, 0, end-start)
	for p := start; p < end; p++ {
		vals = append(vals, m.data.At(int(p)))
	}

	return idx, vals, nil
}

// Float64s materializes the matrix as row-major float64 values.
func (m *Matrix) Float64s() []float64 {
	out := make([]float64, m.rows*m.cols)
	m.fillFloat64s(out)

	return out
}

// fillFloat64s writes the row-major values of m into out, which must be
// zeroed and hold rows*cols values.
func (m *Matrix) fillFloat64s(out []float64) {
	switch m.enc {
	case format.CSR, format.CSC:
		major, _ := m.majorMinor()
		for k := range major {
			for p := m.indptr[k]; p < m.indptr[k+1]; p++ {
				i, j := k, int(m.indices[p])
				if m.enc == format.CSC {
					i, j = j, k
				}
				out[i*m.cols+j] = m.data.At(int(p))
			}
		}
	default:
		for i := range out {
			out[i] = m.data.At(i)
		}
	}
}

// Convert returns a copy of m stored in enc. Converting to a compressed
// layout stores only non-zero entries.
func (m *Matrix) Convert(enc format.Encoding) (*Matrix, error) {
	switch enc {
	case format.Dense:
		return m.toDense()
	case format.CSR, format.CSC:
		return m.toSparse(enc)
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownEncoding, enc)
	}
}

func (m *Matrix) toDense() (*Matrix, error) {
	if m.enc == format.Dense {
		return m.Clone(), nil
	}

	data, err := NewValues(m.DType(), m.rows*m.cols)
	if err != nil {
		return nil, err
	}
	for i, v := range m.Float64s() {
		if v != 0 {
			data.Set(i, v)
		}
	}

	return &Matrix{rows: m.rows, cols: m.cols, enc: format.Dense, data: data}, nil
}

func (m *Matrix) toSparse(enc format.Encoding) (*Matrix, error) {
	dense := m.Float64s()
	out := &Matrix{rows: m.rows, cols: m.cols, enc: enc}
	major, minor := out.majorMinor()

	position := func(k, p int) int {
		if enc == format.CSC {
			return p*m.cols + k
		}

		return k*m.cols + p
	}

	nnz := 0
	for _, v := range dense {
		if v != 0 {
			nnz++
		}
	}

	data, err := NewValues(m.DType(), nnz)
	if err != nil {
		return nil, err
	}
	out.data = data
	out.indices = make([]int32, 0, nnz)
	out.indptr = make([]int32, 1, major+1)

	for k := range major {
		for p := range minor {
			v := dense[position(k, p)]
			if v == 0 {
				continue
			}
			data.Set(len(out.indices), v)
			out.indices = append(out.indices, int32(p)) //nolint:gosec
		}
		out.indptr = append(out.indptr, int32(len(out.indices))) //nolint:gosec
	}

	return out, nil
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		rows:    m.rows,
		cols:    m.cols,
		enc:     m.enc,
		data:    m.data.Clone(),
		indices: slices.Clone(m.indices),
		indptr:  slices.Clone(m.indptr),
	}
}

// Equal reports whether m and o have the same shape, element type and
// values. The storage layouts may differ.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols || m.DType() != o.DType() {
		return false
	}

	a, cleanupA := pool.GetFloat64Slice(m.rows * m.cols)
	defer cleanupA()
	b, cleanupB := pool.GetFloat64Slice(o.rows * o.cols)
	defer cleanupB()
	m.fillFloat64s(a)
	o.fillFloat64s(b)

	return slices.Equal(a, b)
}

func (m *Matrix) String() string {
	return fmt.Sprintf("%s %s %dx%d (%d stored)", m.DType(), m.enc, m.rows, m.cols, m.Stored())
}
