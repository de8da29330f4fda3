// Package endian provides the byte orders annfix writes numeric chunks in.
//
// The package combines ByteOrder and AppendByteOrder from encoding/binary into
// a single EndianEngine interface and maps engines to and from the byte order
// characters that prefix numpy dtype strings ('<' little, '>' big, '|' not
// applicable).
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, math.Float32bits(v))
//	dtype := string(endian.ByteOrderMark(engine)) + "f4" // "<f4"
package endian

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/annfix/errs"
)

// Byte order characters used in zarr v2 dtype strings.
const (
	MarkLittle        byte = '<'
	MarkBig           byte = '>'
	MarkNotApplicable byte = '|'
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}

// ByteOrderMark returns the dtype prefix for engine.
func ByteOrderMark(engine EndianEngine) byte {
	if IsLittleEndian(engine) {
		return MarkLittle
	}

	return MarkBig
}

// FromByteOrderMark returns the engine for a dtype prefix. Single byte types
// carry '|', which decodes identically under either order, so it maps to
// little-endian.
func FromByteOrderMark(mark byte) (EndianEngine, error) {
	switch mark {
	case MarkLittle, MarkNotApplicable:
		return binary.LittleEndian, nil
	case MarkBig:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: byte order %q", errs.ErrInvalidDType, mark)
	}
}
