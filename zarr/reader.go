package zarr

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/annfix/compress"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/collision"
	"github.com/arloliu/annfix/matrix"
)

// Reader reads groups and arrays from a Store.
type Reader struct {
	store Store
}

// NewReader creates a Reader for store.
func NewReader(store Store) *Reader {
	return &Reader{store: store}
}

// Kind reports whether p is a group or an array. It returns an error
// wrapping errs.ErrNodeNotFound if neither metadata document exists.
func (r *Reader) Kind(p string) (collision.NodeKind, error) {
	if _, err := r.store.Get(metaKey(p, arrayKey)); err == nil {
		return collision.KindArray, nil
	} else if !errors.Is(err, errs.ErrNodeNotFound) {
		return 0, err
	}

	if _, err := r.store.Get(metaKey(p, groupKey)); err != nil {
		if errors.Is(err, errs.ErrNodeNotFound) {
			return 0, fmt.Errorf("%w: node %q", errs.ErrNodeNotFound, p)
		}

		return 0, err
	}

	return collision.KindGroup, nil
}

// Exists reports whether p is a group or an array.
func (r *Reader) Exists(p string) bool {
	_, err := r.Kind(p)
	return err == nil
}

// Attrs returns the attributes of node p; a node without .zattrs has none.
func (r *Reader) Attrs(p string) (Attrs, error) {
	data, err := r.store.Get(metaKey(p, attrsKey))
	if errors.Is(err, errs.ErrNodeNotFound) {
		return Attrs{}, nil
	}
	if err != nil {
		return nil, err
	}

	attrs := Attrs{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrUnsupportedElement, metaKey(p, attrsKey), err)
	}

	return attrs, nil
}

// Children returns the names of the nodes directly below group p, in
// lexical order.
func (r *Reader) Children(p string) ([]string, error) {
	keys, err := r.store.Keys()
	if err != nil {
		return nil, err
	}

	prefix := ""
	if p != "" {
		prefix = p + "/"
	}

	var names []string
	for _, key := range keys {
		rest, ok := strings.CutPrefix(key, prefix)
		if !ok {
			continue
		}
		name, leaf, ok := strings.Cut(rest, "/")
		if !ok || (leaf != groupKey && leaf != arrayKey) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	return slices.Compact(names), nil
}

// ArrayMeta returns the parsed .zarray of p.
func (r *Reader) ArrayMeta(p string) (*ArrayMeta, error) {
	data, err := r.store.Get(metaKey(p, arrayKey))
	if err != nil {
		return nil, err
	}

	var meta ArrayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrUnsupportedElement, metaKey(p, arrayKey), err)
	}
	if meta.ZarrFormat != FormatVersion {
		return nil, fmt.Errorf("%w: %s: zarr_format %d", errs.ErrUnsupportedElement, p, meta.ZarrFormat)
	}
	if meta.Order != "" && meta.Order != "C" {
		return nil, fmt.Errorf("%w: %s: order %q", errs.ErrUnsupportedElement, p, meta.Order)
	}
	if len(meta.Shape) < 1 || len(meta.Shape) > 2 || len(meta.Chunks) != len(meta.Shape) {
		return nil, fmt.Errorf("%w: %s: shape %v with chunks %v", errs.ErrInvalidShape, p, meta.Shape, meta.Chunks)
	}
	for i := range meta.Shape {
		if meta.Shape[i] < 0 || meta.Chunks[i] < 1 {
			return nil, fmt.Errorf("%w: %s: shape %v with chunks %v", errs.ErrInvalidShape, p, meta.Shape, meta.Chunks)
		}
	}

	return &meta, nil
}

// ReadNumeric reads a 1-D or 2-D numeric array, returning its row-major
// values and its shape.
func (r *Reader) ReadNumeric(p string) (matrix.Values, []int, error) {
	meta, err := r.ArrayMeta(p)
	if err != nil {
		return nil, nil, err
	}
	dtype, engine, err := ParseNumericDType(meta.DType)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p, err)
	}

	fill, err := numericFill(dtype, meta.FillValue)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p, err)
	}
	fillBytes := fill.AppendBytes(nil, engine)

	raw, err := r.readRaw(p, meta, fillBytes)
	if err != nil {
		return nil, nil, err
	}

	values, err := matrix.DecodeValues(dtype, raw, engine)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", p, err)
	}

	return values, meta.Shape, nil
}

// ReadInt8 reads a 1-D int8 array.
func (r *Reader) ReadInt8(p string) ([]int8, error) {
	meta, err := r.ArrayMeta(p)
	if err != nil {
		return nil, err
	}
	if len(meta.DType) != 3 || meta.DType[1:] != "i1" || len(meta.Shape) != 1 {
		return nil, fmt.Errorf("%w: %s: want 1-D i1, got %s %v", errs.ErrInvalidDType, p, meta.DType, meta.Shape)
	}

	fill := byte(0)
	if f, ok := meta.FillValue.(float64); ok {
		fill = byte(int8(f))
	}

	raw, err := r.readRaw(p, meta, []byte{fill})
	if err != nil {
		return nil, err
	}

	out := make([]int8, len(raw))
	for i, b := range raw {
		out[i] = int8(b) //nolint:gosec
	}

	return out, nil
}

// ReadStrings reads a 1-D vlen-utf8 object array. Missing chunks read as
// empty strings.
func (r *Reader) ReadStrings(p string) ([]string, error) {
	meta, err := r.ArrayMeta(p)
	if err != nil {
		return nil, err
	}
	if meta.DType != DTypeObject || len(meta.Shape) != 1 {
		return nil, fmt.Errorf("%w: %s: want 1-D %s, got %s %v", errs.ErrInvalidDType, p, DTypeObject, meta.DType, meta.Shape)
	}
	if !slices.ContainsFunc(meta.Filters, func(c CodecConfig) bool { return c.ID == VLenUTF8 }) {
		return nil, fmt.Errorf("%w: %s: object array without %s filter", errs.ErrUnsupportedCompression, p, VLenUTF8)
	}

	codec, err := codecFromConfig(meta.Compressor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	n, chunk := meta.Shape[0], meta.Chunks[0]
	out := make([]string, 0, n)
	for c := 0; c*chunk < n; c++ {
		want := min(chunk, n-c*chunk)

		data, err := r.store.Get(metaKey(p, strconv.Itoa(c)))
		if errors.Is(err, errs.ErrNodeNotFound) {
			out = append(out, make([]string, want)...)
			continue
		}
		if err != nil {
			return nil, err
		}

		raw, err := codec.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s chunk %d: %w", errs.ErrCorruptChunk, p, c, err)
		}
		items, err := DecodeVLenUTF8(raw)
		if err != nil {
			return nil, fmt.Errorf("%s chunk %d: %w", p, c, err)
		}
		if len(items) < want {
			return nil, fmt.Errorf("%w: %s chunk %d has %d items, want %d", errs.ErrCorruptChunk, p, c, len(items), want)
		}
		out = append(out, items[:want]...)
	}

	return out, nil
}

// readRaw assembles the row-major bytes of a 1-D or 2-D array from its chunk
// grid. Chunks that are absent contribute fill, one element's bytes.
func (r *Reader) readRaw(p string, meta *ArrayMeta, fill []byte) ([]byte, error) {
	if len(meta.Filters) > 0 {
		return nil, fmt.Errorf("%w: %s: filters on a numeric array", errs.ErrUnsupportedCompression, p)
	}
	codec, err := codecFromConfig(meta.Compressor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	size := len(fill)
	rows, cols := meta.Shape[0], 1
	chunkRows, chunkCols := meta.Chunks[0], 1
	if len(meta.Shape) == 2 {
		cols, chunkCols = meta.Shape[1], meta.Chunks[1]
	}

	out := make([]byte, rows*cols*size)
	chunkBytes := chunkRows * chunkCols * size

	for ci := 0; ci*chunkRows < rows; ci++ {
		for cj := 0; cj*chunkCols < cols; cj++ {
			key := metaKey(p, chunkCoord(meta, ci, cj))
			chunk, err := r.loadChunk(codec, key, chunkBytes)
			if err != nil {
				return nil, err
			}
			copyChunk(out, chunk, fill, ci*chunkRows, cj*chunkCols, rows, cols, chunkRows, chunkCols, size)
		}
	}

	return out, nil
}

// loadChunk returns the decompressed chunk under key, or nil if it is absent.
func (r *Reader) loadChunk(codec compress.Codec, key string, want int) ([]byte, error) {
	data, err := r.store.Get(key)
	if errors.Is(err, errs.ErrNodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrCorruptChunk, key, err)
	}
	if len(raw) != want {
		return nil, fmt.Errorf("%w: %s decoded to %d bytes, want %d", errs.ErrCorruptChunk, key, len(raw), want)
	}

	return raw, nil
}

// copyChunk copies the part of a chunk that lies inside the array into out.
// A nil chunk writes fill instead.
func copyChunk(out, chunk, fill []byte, row0, col0, rows, cols, chunkRows, chunkCols, size int) {
	height := min(chunkRows, rows-row0)
	width := min(chunkCols, cols-col0)

	for i := range height {
		dst := out[((row0+i)*cols+col0)*size:][:width*size]
		if chunk == nil {
			for j := range width {
				copy(dst[j*size:], fill)
			}
			continue
		}
		copy(dst, chunk[i*chunkCols*size:][:width*size])
	}
}

func chunkCoord(meta *ArrayMeta, ci, cj int) string {
	if len(meta.Shape) == 1 {
		return strconv.Itoa(ci)
	}

	sep := meta.DimensionSeparator
	if sep == "" {
		sep = "."
	}

	return strconv.Itoa(ci) + sep + strconv.Itoa(cj)
}

// numericFill returns the fill value as a single element. zarr-python writes
// null for "no fill", which reads as zero here.
func numericFill(dtype format.NumericType, raw any) (matrix.Values, error) {
	fill, err := matrix.NewValues(dtype, 1)
	if err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case nil:
	case float64:
		fill.Set(0, v)
	case string:
		switch v {
		case "NaN":
			fill.Set(0, math.NaN())
		case "Infinity":
			fill.Set(0, math.Inf(1))
		case "-Infinity":
			fill.Set(0, math.Inf(-1))
		default:
			return nil, fmt.Errorf("%w: fill value %q", errs.ErrInvalidDType, v)
		}
	default:
		return nil, fmt.Errorf("%w: fill value %v", errs.ErrInvalidDType, raw)
	}

	return fill, nil
}
