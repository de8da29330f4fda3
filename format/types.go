// Package format defines the enumerations shared by every layer of annfix:
// matrix element types, matrix storage layouts, primary-matrix format
// directives and chunk compression algorithms.
package format

import (
	"fmt"

	"github.com/arloliu/annfix/errs"
)

type (
	NumericType     uint8
	Encoding        uint8
	XFormat         uint8
	CompressionType uint8
)

const (
	Int32   NumericType = 0x1 // Int32 stores entries as 32-bit signed integers.
	Int64   NumericType = 0x2 // Int64 stores entries as 64-bit signed integers.
	Float32 NumericType = 0x3 // Float32 stores entries as IEEE 754 single precision floats.

	Dense Encoding = 0x1 // Dense stores every entry in row-major order.
	CSR   Encoding = 0x2 // CSR stores non-zero entries compressed by row.
	CSC   Encoding = 0x3 // CSC stores non-zero entries compressed by column.

	XFormatCSC   XFormat = 0x1 // XFormatCSC re-encodes X as CSC.
	XFormatCSR   XFormat = 0x2 // XFormatCSR re-encodes X as CSR.
	XFormatDense XFormat = 0x3 // XFormatDense keeps X dense.
	XFormatOmit  XFormat = 0x4 // XFormatOmit removes X from the dataset.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionLZ4  CompressionType = 0x3 // CompressionLZ4 represents LZ4 block compression.
	CompressionGzip CompressionType = 0x4 // CompressionGzip represents gzip compression.
	CompressionZlib CompressionType = 0x5 // CompressionZlib represents zlib compression.
)

// NumericTypes lists the element types in fixture order.
var NumericTypes = []NumericType{Int32, Int64, Float32}

// Encodings lists the storage layouts in fixture order.
var Encodings = []Encoding{Dense, CSC, CSR}

// XFormats lists the primary-matrix directives in the order fixtures are written.
var XFormats = []XFormat{XFormatCSC, XFormatCSR, XFormatDense, XFormatOmit}

func (t NumericType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	default:
		return "Unknown"
	}
}

// Size returns the width of one element in bytes, or 0 for unknown types.
func (t NumericType) Size() int {
	switch t {
	case Int32, Float32:
		return 4
	case Int64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether t is one of the supported element types.
func (t NumericType) Valid() bool {
	return t.Size() != 0
}

// ZarrKind returns the numpy type code without byte order, e.g. "i4".
func (t NumericType) ZarrKind() string {
	switch t {
	case Int32:
		return "i4"
	case Int64:
		return "i8"
	case Float32:
		return "f4"
	default:
		return ""
	}
}

// ParseZarrKind maps a numpy type code such as "f4" back to a NumericType.
func ParseZarrKind(kind string) (NumericType, error) {
	switch kind {
	case "i4":
		return Int32, nil
	case "i8":
		return Int64, nil
	case "f4":
		return Float32, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownNumericType, kind)
	}
}

func (e Encoding) String() string {
	switch e {
	case Dense:
		return "dense"
	case CSR:
		return "csr"
	case CSC:
		return "csc"
	default:
		return "Unknown"
	}
}

// IsSparse reports whether e is one of the compressed layouts.
func (e Encoding) IsSparse() bool {
	return e == CSR || e == CSC
}

// ParseEncoding accepts the short names used in fixture keys.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "dense":
		return Dense, nil
	case "csr":
		return CSR, nil
	case "csc":
		return CSC, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownEncoding, s)
	}
}

func (f XFormat) String() string {
	switch f {
	case XFormatCSC:
		return "csc"
	case XFormatCSR:
		return "csr"
	case XFormatDense:
		return "dense"
	case XFormatOmit:
		return "no-X"
	default:
		return "Unknown"
	}
}

// Encoding returns the layout X takes under the directive. The second
// result is false for XFormatOmit and for unknown directives.
func (f XFormat) Encoding() (Encoding, bool) {
	switch f {
	case XFormatCSC:
		return CSC, true
	case XFormatCSR:
		return CSR, true
	case XFormatDense:
		return Dense, true
	default:
		return 0, false
	}
}

// ParseXFormat maps a directive name to its XFormat. Both "no-X" and "omit"
// select XFormatOmit.
func ParseXFormat(s string) (XFormat, error) {
	switch s {
	case "csc":
		return XFormatCSC, nil
	case "csr":
		return XFormatCSR, nil
	case "dense":
		return XFormatDense, nil
	case "no-X", "omit":
		return XFormatOmit, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, s)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}
