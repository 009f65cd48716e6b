package epsilon

import (
	"fmt"
	"unicode/utf8"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

// scalar is the codec of a plain value written as its native-endian
// memory.
type scalar[T any] struct {
	name string
}

func (scalar[T]) Copy() Zero { return Zero{} }

func (s scalar[T]) TypeName() string { return s.name }

func (scalar[T]) Size() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (scalar[T]) Align() int {
	var zero T
	return int(unsafe.Alignof(zero))
}

func (s scalar[T]) MaxAlign() int { return s.Align() }

func (s scalar[T]) TypeHash(h *TypeHasher) { h.Scalar(s.name, s.Size(), s.Align()) }

func (scalar[T]) IsZeroCopy() bool { return true }

func (scalar[T]) ZeroCopyMismatch() bool { return false }

func (s scalar[T]) Serialize(w ser.Writer, v *T) error {
	return serializeZero(w, s.Align(), v)
}

func (s scalar[T]) DeserializeFull(r deser.Reader) (T, error) {
	return deserializeZeroFull[T](r, s.Align(), nil)
}

func (s scalar[T]) DeserializeEps(r *deser.Slice) (*T, error) {
	return deserializeZeroEps[T](r, s.Align(), nil)
}

// checked is a scalar with illegal bit patterns.
type checked[T any] struct {
	scalar[T]
	check func(*T) error
}

func (c checked[T]) Check(v *T) error { return c.check(v) }

func (c checked[T]) DeserializeFull(r deser.Reader) (T, error) {
	return deserializeZeroFull(r, c.Align(), c.check)
}

func (c checked[T]) DeserializeEps(r *deser.Slice) (*T, error) {
	return deserializeZeroEps(r, c.Align(), c.check)
}

func checkBool(v *bool) error {
	if b := *(*uint8)(unsafe.Pointer(v)); b > 1 {
		return fmt.Errorf("%w: bool byte %#02x", ErrInvalidDiscriminant, b)
	}
	return nil
}

func checkRune(v *rune) error {
	if !utf8.ValidRune(*v) {
		return fmt.Errorf("%w: %#x is not a Unicode scalar value", ErrInvalidDiscriminant, *v)
	}
	return nil
}

// Scalar codecs. They are all zero-copy and use the native byte order.
var (
	Bool       ZeroCodec[bool]       = checked[bool]{scalar[bool]{"bool"}, checkBool}
	Int8       ZeroCodec[int8]       = scalar[int8]{"int8"}
	Int16      ZeroCodec[int16]      = scalar[int16]{"int16"}
	Int32      ZeroCodec[int32]      = scalar[int32]{"int32"}
	Int64      ZeroCodec[int64]      = scalar[int64]{"int64"}
	Int        ZeroCodec[int]        = scalar[int]{"int"}
	Uint8      ZeroCodec[uint8]      = scalar[uint8]{"uint8"}
	Uint16     ZeroCodec[uint16]     = scalar[uint16]{"uint16"}
	Uint32     ZeroCodec[uint32]     = scalar[uint32]{"uint32"}
	Uint64     ZeroCodec[uint64]     = scalar[uint64]{"uint64"}
	Uint       ZeroCodec[uint]       = scalar[uint]{"uint"}
	Uintptr    ZeroCodec[uintptr]    = scalar[uintptr]{"uintptr"}
	Float32    ZeroCodec[float32]    = scalar[float32]{"float32"}
	Float64    ZeroCodec[float64]    = scalar[float64]{"float64"}
	Complex64  ZeroCodec[complex64]  = scalar[complex64]{"complex64"}
	Complex128 ZeroCodec[complex128] = scalar[complex128]{"complex128"}
	// Rune is an int32 restricted to Unicode scalar values.
	Rune ZeroCodec[rune] = checked[rune]{scalar[rune]{"rune"}, checkRune}
	// Unit has no bytes at all.
	Unit ZeroCodec[struct{}] = scalar[struct{}]{"struct{}"}
)
