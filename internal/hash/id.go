package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of the given bytes.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Digest hashes a sequence of key/value entries. Each entry is length
// prefixed so that ("ab", "c") and ("a", "bc") produce different digests.
// Callers feed entries in a deterministic order.
type Digest struct {
	d       *xxhash.Digest
	entries int
	lenBuf  [8]byte
}

// NewDigest creates an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Add feeds one entry into the digest.
func (d *Digest) Add(key string, value []byte) {
	d.writeLen(len(key))
	_, _ = d.d.WriteString(key)
	d.writeLen(len(value))
	_, _ = d.d.Write(value)
	d.entries++
}

// Entries returns the number of entries added so far.
func (d *Digest) Entries() int {
	return d.entries
}

// Sum64 returns the current digest value.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}

// Hex returns the digest as 16 lowercase hex digits.
func (d *Digest) Hex() string {
	return fmt.Sprintf("%016x", d.d.Sum64())
}

func (d *Digest) writeLen(n int) {
	binary.LittleEndian.PutUint64(d.lenBuf[:], uint64(n)) //nolint:gosec
	_, _ = d.d.Write(d.lenBuf[:])
}
