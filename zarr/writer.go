package zarr

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/arloliu/annfix/compress"
	"github.com/arloliu/annfix/endian"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
	"github.com/arloliu/annfix/internal/collision"
	"github.com/arloliu/annfix/internal/options"
	"github.com/arloliu/annfix/internal/pool"
	"github.com/arloliu/annfix/matrix"
)

// Writer creates groups and arrays in a Store.
//
// Every node path is registered with a collision tracker, so writing the
// same path twice or placing a node under an array fails with
// errs.ErrNodeExists instead of silently mixing chunks. Parents must be
// created before their children.
type Writer struct {
	store       Store
	cfg         *WriterConfig
	codec       compress.Codec
	compressor  *CodecConfig
	tracker     *collision.Tracker
	rootWritten bool
}

// NewWriter creates a Writer for store.
//
// Parameters:
//   - store: Destination store, normally empty
//   - opts: Optional configuration (compression, byte order, chunking)
//
// Returns:
//   - *Writer: The writer
//   - error: Option or compressor configuration error
func NewWriter(store Store, opts ...WriterOption) (*Writer, error) {
	cfg := defaultWriterConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(cfg.compression, cfg.level)
	if err != nil {
		return nil, err
	}

	return &Writer{
		store:      store,
		cfg:        cfg,
		codec:      codec,
		compressor: compressorConfig(codec),
		tracker:    collision.NewTracker(),
	}, nil
}

// Engine returns the byte order numeric chunks are written in.
func (w *Writer) Engine() endian.EndianEngine {
	return w.cfg.engine
}

// Nodes returns the number of groups and arrays written below the root.
func (w *Writer) Nodes() int {
	return w.tracker.Count()
}

// CreateGroup writes a group node with the given attributes. The empty path
// addresses the root group, which may be written once.
func (w *Writer) CreateGroup(p string, attrs Attrs) error {
	if p == "" {
		if w.rootWritten {
			return fmt.Errorf("%w: root group", errs.ErrNodeExists)
		}
		w.rootWritten = true
	} else if err := w.tracker.TrackGroup(p); err != nil {
		return err
	}

	if err := w.writeJSON(metaKey(p, groupKey), groupMeta{ZarrFormat: FormatVersion}); err != nil {
		return err
	}

	return w.writeAttrs(p, attrs)
}

// WriteNumeric writes values as a 1-D or 2-D array of the given shape in
// row-major order.
func (w *Writer) WriteNumeric(p string, shape []int, values matrix.Values, attrs Attrs) error {
	if err := checkShape(shape, values.Len()); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	dtype := values.DType()
	rowLen := rowElems(shape)
	rowBytes := rowLen * dtype.Size()

	return w.writeChunked(p, shape, NumericDType(dtype, w.cfg.engine), 0, rowBytes, attrs,
		func(dst []byte, start, end int) []byte {
			return appendRange(dst, values, start*rowLen, end*rowLen, w.cfg.engine)
		})
}

// WriteInt8 writes a 1-D array of int8 values, as used for categorical codes.
func (w *Writer) WriteInt8(p string, values []int8, attrs Attrs) error {
	shape := []int{len(values)}

	return w.writeChunked(p, shape, DTypeInt8, 0, 1, attrs,
		func(dst []byte, start, end int) []byte {
			for _, v := range values[start:end] {
				dst = append(dst, byte(v))
			}

			return dst
		})
}

// WriteStrings writes a 1-D object array of strings with the vlen-utf8
// filter. String arrays are always a single chunk.
func (w *Writer) WriteStrings(p string, values []string, attrs Attrs) error {
	n := len(values)
	meta := w.arrayMeta([]int{n}, []int{max(n, 1)}, DTypeObject, nil)
	meta.Filters = []CodecConfig{{ID: VLenUTF8}}

	if err := w.beginArray(p, meta, attrs); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	enc := NewVLenEncoder()
	defer enc.Release()
	if err := enc.WriteSlice(values); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	return w.writeChunk(metaKey(p, "0"), enc.Finish())
}

// writeChunked writes an array split into row chunks. encodeRows appends the
// raw bytes of rows [start, end); edge chunks are padded with zero bytes,
// which is the fill value of every numeric array written here.
func (w *Writer) writeChunked(p string, shape []int, dtype string, fill any, rowBytes int,
	attrs Attrs, encodeRows func(dst []byte, start, end int) []byte,
) error {
	rows := shape[0]
	chunkRows := max(rows, 1)
	if w.cfg.maxChunkRows > 0 && rows > w.cfg.maxChunkRows {
		chunkRows = w.cfg.maxChunkRows
	}

	chunks := make([]int, len(shape))
	chunks[0] = chunkRows
	for i := 1; i < len(shape); i++ {
		chunks[i] = max(shape[i], 1)
	}

	if err := w.beginArray(p, w.arrayMeta(shape, chunks, dtype, fill), attrs); err != nil {
		return err
	}
	// Arrays without elements have no chunks.
	if rowBytes == 0 || rows == 0 {
		return nil
	}

	buf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(buf)

	for c, start := 0, 0; start < rows; c, start = c+1, start+chunkRows {
		end := min(start+chunkRows, rows)

		buf.Reset()
		buf.Grow(chunkRows * rowBytes)
		buf.B = encodeRows(buf.B, start, end)
		for pad := (chunkRows - (end - start)) * rowBytes; pad > 0; pad-- {
			buf.B = append(buf.B, 0)
		}

		if err := w.writeChunk(metaKey(p, chunkName(c, len(shape))), buf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) arrayMeta(shape, chunks []int, dtype string, fill any) *ArrayMeta {
	return &ArrayMeta{
		Chunks:             chunks,
		Compressor:         w.compressor,
		DimensionSeparator: ".",
		DType:              dtype,
		FillValue:          fill,
		Order:              "C",
		Shape:              shape,
		ZarrFormat:         FormatVersion,
	}
}

func (w *Writer) beginArray(p string, meta *ArrayMeta, attrs Attrs) error {
	if err := w.tracker.TrackArray(p); err != nil {
		return err
	}
	if err := w.writeJSON(metaKey(p, arrayKey), meta); err != nil {
		return err
	}

	return w.writeAttrs(p, attrs)
}

func (w *Writer) writeChunk(key string, raw []byte) error {
	data, err := w.codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("compress %s: %w", key, err)
	}
	// Uncompressed chunks still point into the pooled buffer.
	if w.codec.Type() == format.CompressionNone {
		data = slices.Clone(data)
	}

	return w.store.Set(key, data)
}

func (w *Writer) writeAttrs(p string, attrs Attrs) error {
	if len(attrs) == 0 {
		return nil
	}

	return w.writeJSON(metaKey(p, attrsKey), attrs)
}

func (w *Writer) writeJSON(key string, v any) error {
	data, err := marshalMeta(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return w.store.Set(key, data)
}

func checkShape(shape []int, n int) error {
	if len(shape) != 1 && len(shape) != 2 {
		return fmt.Errorf("%w: %d dimensions", errs.ErrInvalidShape, len(shape))
	}

	total := 1
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("%w: %v", errs.ErrInvalidShape, shape)
		}
		total *= d
	}
	if total != n {
		return fmt.Errorf("%w: shape %v holds %d values, got %d", errs.ErrInvalidShape, shape, total, n)
	}

	return nil
}

// rowElems returns the number of elements in one step along axis 0.
func rowElems(shape []int) int {
	n := 1
	for _, d := range shape[1:] {
		n *= d
	}

	return n
}

// chunkName returns the key of the c-th chunk along axis 0. Only axis 0 is
// ever split, so the remaining chunk coordinates are zero.
func chunkName(c, ndim int) string {
	name := strconv.Itoa(c)
	for range ndim - 1 {
		name += ".0"
	}

	return name
}

func appendRange(dst []byte, values matrix.Values, start, end int, engine endian.EndianEngine) []byte {
	return values.Slice(start, end).AppendBytes(dst, engine)
}
