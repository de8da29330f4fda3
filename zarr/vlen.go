package zarr

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/arloliu/annfix/endian"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/internal/pool"
)

// VLenEncoder encodes string chunks in the numcodecs vlen-utf8 layout:
//
//   - 4 bytes: item count, little-endian
//   - per item: 4 bytes length (little-endian) followed by the UTF-8 bytes
//
// The layout is little-endian whatever byte order numeric chunks use.
type VLenEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

// NewVLenEncoder creates an encoder backed by a pooled chunk buffer.
// Call Finish to obtain the chunk, then Release.
func NewVLenEncoder() *VLenEncoder {
	e := &VLenEncoder{
		buf:    pool.GetChunkBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
	// Placeholder for the item count, patched by Finish.
	e.buf.B = e.engine.AppendUint32(e.buf.B, 0)

	return e
}

// Write appends one string.
func (e *VLenEncoder) Write(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q is not valid UTF-8", errs.ErrInvalidDType, s)
	}
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: string of %d bytes", errs.ErrInvalidDType, len(s))
	}

	e.buf.Grow(4 + len(s))
	e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(len(s))) //nolint:gosec
	e.buf.B = append(e.buf.B, s...)
	e.count++

	return nil
}

// WriteSlice appends every string of values.
func (e *VLenEncoder) WriteSlice(values []string) error {
	total := 0
	for _, s := range values {
		total += 4 + len(s)
	}
	e.buf.Grow(total)

	for _, s := range values {
		if err := e.Write(s); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of strings written.
func (e *VLenEncoder) Len() int {
	return e.count
}

// Finish patches the item count and returns the encoded chunk. The slice is
// owned by the encoder until Release.
func (e *VLenEncoder) Finish() []byte {
	e.engine.PutUint32(e.buf.B[:4], uint32(e.count)) //nolint:gosec
	return e.buf.Bytes()
}

// Release returns the buffer to the pool. The encoder must not be used afterwards.
func (e *VLenEncoder) Release() {
	if e.buf != nil {
		pool.PutChunkBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// EncodeVLenUTF8 encodes values as one vlen-utf8 chunk.
func EncodeVLenUTF8(values []string) ([]byte, error) {
	e := NewVLenEncoder()
	defer e.Release()

	if err := e.WriteSlice(values); err != nil {
		return nil, err
	}

	return slices.Clone(e.Finish()), nil
}

// DecodeVLenUTF8 decodes a vlen-utf8 chunk.
func DecodeVLenUTF8(data []byte) ([]string, error) {
	engine := endian.GetLittleEndianEngine()
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: vlen-utf8 chunk shorter than its header", errs.ErrCorruptChunk)
	}

	count := int(engine.Uint32(data))
	data = data[4:]
	// Every item needs at least its length prefix.
	if count > len(data)/4 {
		return nil, fmt.Errorf("%w: vlen-utf8 header claims %d items in %d bytes", errs.ErrCorruptChunk, count, len(data))
	}

	out := make([]string, count)
	for i := range out {
		if len(data) < 4 {
			return nil, fmt.Errorf("%w: vlen-utf8 item %d truncated", errs.ErrCorruptChunk, i)
		}
		n := int(engine.Uint32(data))
		data = data[4:]
		if n > len(data) {
			return nil, fmt.Errorf("%w: vlen-utf8 item %d needs %d bytes, %d left", errs.ErrCorruptChunk, i, n, len(data))
		}
		out[i] = string(data[:n])
		data = data[n:]
	}
	if len(data) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after vlen-utf8 items", errs.ErrCorruptChunk, len(data))
	}

	return out, nil
}
