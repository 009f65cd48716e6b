// Package epsilon is a binary serialization engine with two reconstruction
// modes over the same bytes: full-copy, which builds an independently owned
// value, and ε-copy, which builds a view pointing into the serialized
// buffer and copies nothing for plain data.
//
// Every serializable type is described by a Codec. A codec's selector,
// Zero or Deep, fixes at compile time whether the type is moved as raw
// memory or traversed field by field.
package epsilon

import (
	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

// Zero selects the zero-copy strategy: the in-memory bytes of the value
// are its serialized form, and ε-copy yields a pointer into the buffer.
type Zero struct{}

// Deep selects the recursive strategy. It is always correct but never
// zero-copy for the value itself.
type Deep struct{}

// Selector is the closed set of copy strategies.
type Selector interface {
	Zero | Deep
}

// Layout is the strategy-independent part of a codec.
type Layout interface {
	// TypeName is the name written in headers and schemas.
	TypeName() string
	// Size is the in-memory size of the Go type.
	Size() int
	// Align is the alignment the first byte of the value requires.
	Align() int
	// MaxAlign is the largest alignment of anything inside the value. An
	// ε-copy buffer's base address must be aligned to it.
	MaxAlign() int
	// TypeHash feeds the structural description of the type to h.
	TypeHash(h *TypeHasher)
	// IsZeroCopy reports whether the memory layout really allows raw
	// copying: no padding and no indirection.
	IsZeroCopy() bool
	// ZeroCopyMismatch reports a type that could be zero-copy but was
	// declared Deep.
	ZeroCopyMismatch() bool
}

// Codec serializes values of type T and reconstructs them either as a T or
// as a view of type V borrowing from the serialized buffer.
type Codec[T, V any, S Selector] interface {
	Layout
	Copy() S
	Serialize(w ser.Writer, v *T) error
	DeserializeFull(r deser.Reader) (T, error)
	DeserializeEps(r *deser.Slice) (V, error)
}

// ZeroCodec describes a zero-copy type. Its view is a pointer into the
// buffer.
type ZeroCodec[T any] = Codec[T, *T, Zero]

// DeepCodec describes a recursively serialized type. Its view has the same
// type, with strings and slices of plain data pointing into the buffer.
type DeepCodec[T any] = Codec[T, T, Deep]

// Checker is implemented by codecs of types for which some bit patterns
// are illegal, such as bool and rune. Check runs after the bytes of a
// value are read and before the value is returned.
type Checker[T any] interface {
	Check(v *T) error
}

// checkFunc returns the validation function of c, or nil when every bit
// pattern is legal.
func checkFunc[T any](c any) func(*T) error {
	ck, ok := c.(Checker[T])
	if !ok {
		return nil
	}
	if nc, ok := c.(interface{ needsCheck() bool }); ok && !nc.needsCheck() {
		return nil
	}
	return ck.Check
}

// WriteField writes v as a named field: the schema recorder gets a row
// for it and one for every nested field.
func WriteField[T, V any, S Selector](w ser.Writer, name string, c Codec[T, V, S], v *T) error {
	w.BeginField(name, c.TypeName(), c.Align())
	if err := c.Serialize(w, v); err != nil {
		return err
	}
	w.EndField()
	return nil
}
