package anndata

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/arloliu/annfix/errs"
	"github.com/arloliu/annfix/zarr"
)

// Attribute names every element carries.
const (
	attrEncodingType    = "encoding-type"
	attrEncodingVersion = "encoding-version"
)

// Encoding identifies how an element is laid out in the store.
type Encoding struct {
	Type    string
	Version string
}

// Element encodings written by this package.
var (
	EncodingAnnData     = Encoding{Type: "anndata", Version: "0.1.0"}
	EncodingDataFrame   = Encoding{Type: "dataframe", Version: "0.2.0"}
	EncodingStringArray = Encoding{Type: "string-array", Version: "0.2.0"}
	EncodingCategorical = Encoding{Type: "categorical", Version: "0.2.0"}
	EncodingArray       = Encoding{Type: "array", Version: "0.2.0"}
	EncodingCSR         = Encoding{Type: "csr_matrix", Version: "0.1.0"}
	EncodingCSC         = Encoding{Type: "csc_matrix", Version: "0.1.0"}
	EncodingDict        = Encoding{Type: "dict", Version: "0.1.0"}
)

func (e Encoding) String() string {
	return e.Type + "/" + e.Version
}

// Attrs returns the encoding attributes of e.
func (e Encoding) Attrs() zarr.Attrs {
	return zarr.Attrs{attrEncodingType: e.Type, attrEncodingVersion: e.Version}
}

// ElementReader decodes the element stored at p, whose attributes have
// already been read.
type ElementReader func(r *zarr.Reader, p string, attrs zarr.Attrs) (any, error)

type registration struct {
	accepts *semver.Constraints
	read    ElementReader
}

// Registry maps encoding types and version ranges to element readers.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]registration)}
}

// Register adds a reader for encodingType at the versions matched by the
// semver constraint, e.g. "~0.2.0".
func (reg *Registry) Register(encodingType, constraint string, read ElementReader) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("%s version constraint %q: %w", encodingType, constraint, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.entries[encodingType] = append(reg.entries[encodingType], registration{accepts: c, read: read})

	return nil
}

// Lookup returns the reader for an encoding type and version.
//
// Returns:
//   - ElementReader: The first registered reader whose range contains version
//   - error: ErrUnsupportedElement for an unknown type or a version no
//     reader accepts
func (reg *Registry) Lookup(encodingType, version string) (ElementReader, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	candidates, ok := reg.entries[encodingType]
	if !ok {
		return nil, fmt.Errorf("%w: encoding-type %q", errs.ErrUnsupportedElement, encodingType)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w: %s encoding-version %q: %w", errs.ErrUnsupportedElement, encodingType, version, err)
	}
	for _, cand := range candidates {
		if cand.accepts.Check(v) {
			return cand.read, nil
		}
	}

	return nil, fmt.Errorf("%w: %s encoding-version %s", errs.ErrUnsupportedElement, encodingType, version)
}

// ReadElement reads the element at p, dispatching on its encoding attributes.
func (reg *Registry) ReadElement(r *zarr.Reader, p string) (any, error) {
	attrs, err := r.Attrs(p)
	if err != nil {
		return nil, err
	}

	typ, version := attrs.String(attrEncodingType), attrs.String(attrEncodingVersion)
	if typ == "" {
		return nil, fmt.Errorf("%w: %q has no %s", errs.ErrUnsupportedElement, p, attrEncodingType)
	}

	read, err := reg.Lookup(typ, version)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return read(r, p, attrs)
}

// DefaultRegistry returns the registry of every encoding this package
// writes, accepting any patch release of each encoding version.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	reg := NewRegistry()
	builtin := []struct {
		enc  Encoding
		read ElementReader
	}{
		{EncodingAnnData, reg.readAnnData},
		{EncodingDataFrame, reg.readDataFrame},
		{EncodingStringArray, readStringArray},
		{EncodingCategorical, reg.readCategorical},
		{EncodingArray, readDense},
		{EncodingCSR, readSparse},
		{EncodingCSC, readSparse},
		{EncodingDict, reg.readDict},
	}
	for _, b := range builtin {
		if err := reg.Register(b.enc.Type, "~"+b.enc.Version, b.read); err != nil {
			panic(err)
		}
	}

	return reg
})
