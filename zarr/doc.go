// Package zarr reads and writes zarr v2 hierarchies.
//
// A hierarchy is a tree of groups and arrays kept in a flat key/value Store.
// Every node carries a JSON metadata document (.zgroup or .zarray) and
// optional attributes (.zattrs); array elements live in compressed chunks
// keyed by their grid coordinates, e.g. "X/0.0".
//
// Only what annotated matrix datasets need is supported: 1-D and 2-D arrays
// in C order with int8, int32, int64 or float32 elements, and 1-D string
// arrays encoded with the vlen-utf8 filter. Chunk compressors are the
// numcodecs zstd, lz4, gzip and zlib codecs from package compress, or none.
//
// Writing:
//
//	store := zarr.NewMemStore()
//	w, err := zarr.NewWriter(store, zarr.WithCompression(format.CompressionLZ4))
//	if err != nil {
//		return err
//	}
//	if err := w.CreateGroup("", zarr.Attrs{"encoding-type": "anndata"}); err != nil {
//		return err
//	}
//	err = w.WriteNumeric("X", []int{50, 25}, values, nil)
//
// Reading uses Reader, which assembles any regular chunk grid and substitutes
// the fill value for absent chunks.
package zarr
