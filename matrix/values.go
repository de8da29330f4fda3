package matrix

import (
	"fmt"
	"math"

	"github.com/arloliu/annfix/endian"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
)

// Values is a typed, fixed-length one-dimensional numeric buffer.
//
// Entries are read and written through float64, which represents every
// int32 and float32 exactly and every int64 up to 2^53. Set converts to the
// element type the way a numeric cast does.
type Values interface {
	// DType returns the element type.
	DType() format.NumericType

	// Len returns the number of elements.
	Len() int

	// At returns element i as float64.
	At(i int) float64

	// Set stores v at index i, converting it to the element type.
	Set(i int, v float64)

	// Clone returns an independent copy.
	Clone() Values

	// Slice returns elements [start, end) sharing storage with the receiver.
	Slice(start, end int) Values

	// AppendBytes appends the raw element bytes in the engine's byte order.
	AppendBytes(dst []byte, engine endian.EndianEngine) []byte
}

type number interface {
	int32 | int64 | float32
}

type typedValues[T number] struct {
	dtype format.NumericType
	data  []T
}

var (
	_ Values = (*typedValues[int32])(nil)
	_ Values = (*typedValues[int64])(nil)
	_ Values = (*typedValues[float32])(nil)
)

// NewValues allocates n zero values of the given type.
func NewValues(dtype format.NumericType, n int) (Values, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", errs.ErrInvalidShape, n)
	}

	switch dtype {
	case format.Int32:
		return &typedValues[int32]{dtype: dtype, data: make([]int32, n)}, nil
	case format.Int64:
		return &typedValues[int64]{dtype: dtype, data: make([]int64, n)}, nil
	case format.Float32:
		return &typedValues[float32]{dtype: dtype, data: make([]float32, n)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownNumericType, dtype)
	}
}

// Int32Values wraps data without copying.
func Int32Values(data []int32) Values {
	return &typedValues[int32]{dtype: format.Int32, data: data}
}

// Int64Values wraps data without copying.
func Int64Values(data []int64) Values {
	return &typedValues[int64]{dtype: format.Int64, data: data}
}

// Float32Values wraps data without copying.
func Float32Values(data []float32) Values {
	return &typedValues[float32]{dtype: format.Float32, data: data}
}

// DecodeValues decodes raw element bytes written by Values.AppendBytes.
func DecodeValues(dtype format.NumericType, data []byte, engine endian.EndianEngine) (Values, error) {
	size := dtype.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownNumericType, dtype)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %s", errs.ErrInvalidShape, len(data), dtype)
	}

	n := len(data) / size
	switch dtype {
	case format.Int32:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(engine.Uint32(data[i*4:])) //nolint:gosec
		}

		return Int32Values(out), nil
	case format.Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(engine.Uint64(data[i*8:])) //nolint:gosec
		}

		return Int64Values(out), nil
	default:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(engine.Uint32(data[i*4:]))
		}

		return Float32Values(out), nil
	}
}

func (v *typedValues[T]) DType() format.NumericType {
	return v.dtype
}

func (v *typedValues[T]) Len() int {
	return len(v.data)
}

func (v *typedValues[T]) At(i int) float64 {
	return float64(v.data[i])
}

func (v *typedValues[T]) Set(i int, x float64) {
	v.data[i] = T(x)
}

func (v *typedValues[T]) Clone() Values {
	data := make([]T, len(v.data))
	copy(data, v.data)

	return &typedValues[T]{dtype: v.dtype, data: data}
}

func (v *typedValues[T]) Slice(start, end int) Values {
	return &typedValues[T]{dtype: v.dtype, data: v.data[start:end:end]}
}

func (v *typedValues[T]) AppendBytes(dst []byte, engine endian.EndianEngine) []byte {
	switch data := any(v.data).(type) {
	case []int32:
		for _, x := range data {
			dst = engine.AppendUint32(dst, uint32(x)) //nolint:gosec
		}
	case []int64:
		for _, x := range data {
			dst = engine.AppendUint64(dst, uint64(x)) //nolint:gosec
		}
	case []float32:
		for _, x := range data {
			dst = engine.AppendUint32(dst, math.Float32bits(x))
		}
	}

	return dst
}
