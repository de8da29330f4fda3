package zarr

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/arloliu/annfix/compress"
	"github.com/arloliu/annfix/endian"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/format"
)

// Metadata keys of the zarr v2 layout.
const (
	groupKey = ".zgroup"
	arrayKey = ".zarray"
	attrsKey = ".zattrs"
)

// FormatVersion is the zarr storage format written to every node.
const FormatVersion = 2

// Dtype strings that are not numeric matrix element types.
const (
	DTypeObject = "|O"
	DTypeInt8   = "|i1"
)

// VLenUTF8 is the numcodecs id of the variable-length string filter.
const VLenUTF8 = "vlen-utf8"

// CodecConfig is a numcodecs compressor or filter description as it appears
// in .zarray. Fields are declared in lexical order so that the encoded JSON
// matches what zarr-python writes.
type CodecConfig struct {
	Acceleration *int   `json:"acceleration,omitempty"`
	ID           string `json:"id"`
	Level        *int   `json:"level,omitempty"`
}

// ArrayMeta is the content of a .zarray document.
type ArrayMeta struct {
	Chunks             []int         `json:"chunks"`
	Compressor         *CodecConfig  `json:"compressor"`
	DimensionSeparator string        `json:"dimension_separator,omitempty"`
	DType              string        `json:"dtype"`
	FillValue          any           `json:"fill_value"`
	Filters            []CodecConfig `json:"filters"`
	Order              string        `json:"order"`
	Shape              []int         `json:"shape"`
	ZarrFormat         int           `json:"zarr_format"`
}

type groupMeta struct {
	ZarrFormat int `json:"zarr_format"`
}

// Attrs are the user attributes of a node, stored in .zattrs.
type Attrs map[string]any

// String returns the string attribute name, or "" if it is absent or not a string.
func (a Attrs) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Strings returns a string list attribute.
func (a Attrs) Strings(name string) ([]string, error) {
	raw, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q", errs.ErrNodeNotFound, name)
	}
	list, ok := raw.([]any)
	if !ok {
		if typed, ok := raw.([]string); ok {
			return typed, nil
		}

		return nil, fmt.Errorf("%w: attribute %q is not a list", errs.ErrUnsupportedElement, name)
	}

	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: attribute %q[%d] is not a string", errs.ErrUnsupportedElement, name, i)
		}
		out[i] = s
	}

	return out, nil
}

// Ints returns an integer list attribute such as a sparse matrix shape.
func (a Attrs) Ints(name string) ([]int, error) {
	raw, ok := a[name]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q", errs.ErrNodeNotFound, name)
	}
	if typed, ok := raw.([]int); ok {
		return typed, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q is not a list", errs.ErrUnsupportedElement, name)
	}

	out := make([]int, len(list))
	for i, item := range list {
		f, ok := item.(float64)
		if !ok || f != float64(int(f)) {
			return nil, fmt.Errorf("%w: attribute %q[%d] is not an integer", errs.ErrUnsupportedElement, name, i)
		}
		out[i] = int(f)
	}

	return out, nil
}

func marshalMeta(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}

func metaKey(nodePath, name string) string {
	if nodePath == "" {
		return name
	}

	return path.Join(nodePath, name)
}

// NumericDType returns the zarr dtype string of a numeric element type, e.g. "<f4".
func NumericDType(dtype format.NumericType, engine endian.EndianEngine) string {
	return string(endian.ByteOrderMark(engine)) + dtype.ZarrKind()
}

// ParseNumericDType splits a numeric dtype string into its element type and byte order.
func ParseNumericDType(s string) (format.NumericType, endian.EndianEngine, error) {
	if len(s) < 2 {
		return 0, nil, fmt.Errorf("%w: %q", errs.ErrInvalidDType, s)
	}
	engine, err := endian.FromByteOrderMark(s[0])
	if err != nil {
		return 0, nil, err
	}
	dtype, err := format.ParseZarrKind(s[1:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %q: %w", errs.ErrInvalidDType, s, err)
	}

	return dtype, engine, nil
}

// compressorConfig describes codec the way numcodecs does.
func compressorConfig(codec compress.Codec) *CodecConfig {
	level := codec.Level()
	switch codec.Type() {
	case format.CompressionZstd:
		return &CodecConfig{ID: "zstd", Level: &level}
	case format.CompressionLZ4:
		return &CodecConfig{ID: "lz4", Acceleration: &level}
	case format.CompressionGzip:
		return &CodecConfig{ID: "gzip", Level: &level}
	case format.CompressionZlib:
		return &CodecConfig{ID: "zlib", Level: &level}
	default:
		return nil
	}
}

// codecFromConfig returns the codec that decodes chunks described by cfg. A
// nil cfg means the chunks are stored uncompressed.
func codecFromConfig(cfg *CodecConfig) (compress.Codec, error) {
	if cfg == nil {
		return compress.GetCodec(format.CompressionNone)
	}

	level := 0
	if cfg.Level != nil {
		level = *cfg.Level
	}

	switch cfg.ID {
	case "zstd":
		// numcodecs accepts levels the encoder never exposes; any level decodes.
		return compress.GetCodec(format.CompressionZstd)
	case "lz4":
		return compress.GetCodec(format.CompressionLZ4)
	case "gzip":
		return compress.CreateCodec(format.CompressionGzip, clampLevel(level))
	case "zlib":
		return compress.CreateCodec(format.CompressionZlib, clampLevel(level))
	default:
		return nil, fmt.Errorf("%w: compressor %q", errs.ErrUnsupportedCompression, cfg.ID)
	}
}

func clampLevel(level int) int {
	if level < 1 || level > 9 {
		return 0
	}

	return level
}
