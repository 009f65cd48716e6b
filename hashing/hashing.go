// Package hashing provides the 64-bit streaming hashers used to compute
// structural type and representation hashes.
//
// The hasher kind is not recorded in the serialized header: data written
// with one kind can only be read back with the same kind. Reading with a
// different kind fails with a hash mismatch.
package hashing

import (
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Kind selects a hash function.
type Kind string

const (
	// XXHash is xxHash64. It is the default.
	XXHash Kind = "xxhash"
	// BLAKE3 is BLAKE3 truncated to its first 8 digest bytes.
	BLAKE3 Kind = "blake3"
)

// Kinds lists the supported hash functions.
var Kinds = []Kind{XXHash, BLAKE3}

// ParseKind converts a name into a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown hash kind %q", name)
}

// Valid reports whether k names a supported hash function.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

// New returns a fresh hasher of the given kind. An empty kind selects XXHash.
func New(k Kind) hash.Hash64 {
	switch k {
	case BLAKE3:
		return &blake3Hash64{h: blake3.New()}
	case XXHash, "":
		return xxhash.New()
	default:
		panic(fmt.Sprintf("hashing: unknown kind %q", k))
	}
}

// blake3Hash64 adapts a BLAKE3 hasher to hash.Hash64.
type blake3Hash64 struct {
	h *blake3.Hasher
}

func (b *blake3Hash64) Write(p []byte) (int, error) { return b.h.Write(p) }
func (b *blake3Hash64) Sum(in []byte) []byte        { return b.h.Sum(in) }
func (b *blake3Hash64) Reset()                      { b.h.Reset() }
func (b *blake3Hash64) Size() int                   { return 8 }
func (b *blake3Hash64) BlockSize() int              { return b.h.BlockSize() }

func (b *blake3Hash64) Sum64() uint64 {
	var digest [32]byte
	return binary.LittleEndian.Uint64(b.h.Sum(digest[:0]))
}
