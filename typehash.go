package epsilon

import (
	"encoding/binary"
	"hash"

	"github.com/rawbytedev/epsilon/hashing"
	"github.com/rawbytedev/epsilon/internal/common"
)

// TypeHasher accumulates the two structural digests of a type.
//
// Type receives the nominal shape: scalar names, container kinds, array
// lengths and field names. Repr receives the physical shape: sizes and the
// padding needed to reach each scalar from OffsetOf, the byte offset
// reached so far inside the enclosing zero-copy value.
type TypeHasher struct {
	Type     hash.Hash64
	Repr     hash.Hash64
	OffsetOf int

	// types that could have been declared zero-copy, in walk order
	mismatches []string
}

// NewTypeHasher returns a TypeHasher using hash functions of kind k.
func NewTypeHasher(k hashing.Kind) *TypeHasher {
	return &TypeHasher{Type: hashing.New(k), Repr: hashing.New(k)}
}

// HashOf returns the type hash and representation hash of the type
// described by l.
func HashOf(l Layout, k hashing.Kind) (typeHash, reprHash uint64) {
	h := NewTypeHasher(k)
	l.TypeHash(h)
	return h.Type.Sum64(), h.Repr.Sum64()
}

// WriteString feeds a length-prefixed string to the type hash, so that
// consecutive names cannot run into each other.
func (h *TypeHasher) WriteString(s string) {
	h.WriteInt(len(s))
	h.Type.Write([]byte(s))
}

// WriteInt feeds n to the type hash.
func (h *TypeHasher) WriteInt(n int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	h.Type.Write(b[:])
}

func (h *TypeHasher) writeRepr(n int) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	h.Repr.Write(b[:])
}

// Scalar hashes a leaf of the given size and alignment and advances
// OffsetOf past it.
func (h *TypeHasher) Scalar(name string, size, align int) {
	h.WriteString(name)
	padding := common.PadAlignTo(h.OffsetOf, align)
	h.writeRepr(padding)
	h.writeRepr(size)
	h.OffsetOf += padding + size
}

// Nested runs fn with OffsetOf reset to zero and restores it afterwards.
// Values that live behind a length prefix start at their own alignment,
// independently of where the enclosing value is.
func (h *TypeHasher) Nested(fn func()) {
	saved := h.OffsetOf
	h.OffsetOf = 0
	fn()
	h.OffsetOf = saved
}

// ReportMismatch records that typeName could have been zero-copy.
func (h *TypeHasher) ReportMismatch(typeName string) {
	h.mismatches = append(h.mismatches, typeName)
}

// Mismatches returns the names passed to ReportMismatch.
func (h *TypeHasher) Mismatches() []string {
	return h.mismatches
}
