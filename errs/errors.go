// Package errs holds the sentinel errors returned across annfix.
//
// Callers match them with errors.Is. Functions add context by wrapping:
//
//	return fmt.Errorf("%w: obsm/int32_csr is %dx%d", errs.ErrShapeMismatch, r, c)
package errs

import "errors"

// Shape and value errors.
var (
	// ErrInvalidShape is returned for negative dimensions or payloads whose
	// length disagrees with the declared shape.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrShapeMismatch is returned when a matrix or column is attached at a
	// point whose axis sizes it does not match.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrOutOfRange is returned by element accessors for indices outside the matrix.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidSparse is returned when indptr/indices do not describe a valid
	// compressed matrix.
	ErrInvalidSparse = errors.New("invalid sparse structure")

	// ErrUnknownNumericType is returned for element types other than int32, int64 and float32.
	ErrUnknownNumericType = errors.New("unknown numeric type")

	// ErrUnknownEncoding is returned for layouts other than dense, csr and csc.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrDenseOnly is returned by operations that require a dense matrix.
	ErrDenseOnly = errors.New("operation requires a dense matrix")
)

// Dataset assembly errors.
var (
	// ErrUnsupportedFormat is returned for X format directives outside csc, csr, dense and omit.
	ErrUnsupportedFormat = errors.New("unsupported X format")

	// ErrDuplicateKey is returned when a name is added twice to a collection,
	// table index or column set.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTooManyCategories is returned when a categorical column has more
	// levels than its int8 codes can address.
	ErrTooManyCategories = errors.New("too many categories")
)

// Storage errors.
var (
	// ErrStorageWrite wraps any failure while persisting a fixture variant.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrNodeExists is returned when a store node path is written twice.
	ErrNodeExists = errors.New("node already exists")

	// ErrNodeNotFound is returned when a store key or node is missing.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNotAStore is returned when a path that should be replaced holds
	// something other than a zarr group.
	ErrNotAStore = errors.New("path is not a zarr store")

	// ErrUnsupportedElement is returned by the reader for an unknown
	// encoding-type/encoding-version pair.
	ErrUnsupportedElement = errors.New("unsupported element encoding")

	// ErrInvalidDType is returned for malformed or unsupported zarr dtype strings.
	ErrInvalidDType = errors.New("invalid dtype")

	// ErrCorruptChunk is returned when a chunk decodes to the wrong size or format.
	ErrCorruptChunk = errors.New("corrupt chunk")

	// ErrUnsupportedCompression is returned for compressors annfix cannot encode or decode.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrDigestMismatch is returned by fixture verification when a store
	// on disk no longer matches its manifest entry.
	ErrDigestMismatch = errors.New("fixture digest mismatch")
)
