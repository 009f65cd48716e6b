package epsilon

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

func writeLen(w ser.Writer, n int) error {
	return WriteField(w, "len", Int, &n)
}

func readLen(r deser.Reader) (int, error) {
	n, err := Int.DeserializeFull(r)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative length %d", ErrUnexpectedEnd, n)
	}
	return n, nil
}

// capHint bounds the capacity allocated upfront for n elements whose
// serialized size is not known in advance.
func capHint(r deser.Reader, n int) int {
	if rem := r.Remaining(); rem >= 0 {
		return min(n, rem)
	}
	return min(n, 1024)
}

type zeroSlice[T any] struct {
	elem  ZeroCodec[T]
	check func(*T) error
}

// SliceOf returns the codec of []T for a zero-copy T. The elements are
// written as one block after the length; ε-copy returns a slice over the
// buffer.
func SliceOf[T any](elem ZeroCodec[T]) DeepCodec[[]T] {
	return &zeroSlice[T]{elem: elem, check: checkFunc[T](elem)}
}

// Bytes is the codec of []byte.
var Bytes = SliceOf(Uint8)

func (*zeroSlice[T]) Copy() Deep { return Deep{} }

func (s *zeroSlice[T]) TypeName() string { return "[]" + s.elem.TypeName() }

func (*zeroSlice[T]) Size() int { return int(unsafe.Sizeof([]T(nil))) }

func (*zeroSlice[T]) Align() int { return Int.Align() }

func (s *zeroSlice[T]) MaxAlign() int { return max(Int.Align(), s.elem.MaxAlign()) }

func (s *zeroSlice[T]) TypeHash(h *TypeHasher) {
	h.WriteString("[]")
	h.Nested(func() { s.elem.TypeHash(h) })
}

func (*zeroSlice[T]) IsZeroCopy() bool       { return false }
func (*zeroSlice[T]) ZeroCopyMismatch() bool { return false }

func (s *zeroSlice[T]) Serialize(w ser.Writer, v *[]T) error {
	mustZeroCopy(s.elem)
	if err := writeLen(w, len(*v)); err != nil {
		return err
	}
	return w.WriteFieldBytes("items", s.TypeName(), s.elem.Align(), sliceBytes(*v))
}

func (s *zeroSlice[T]) checkAll(items []T) error {
	if s.check == nil {
		return nil
	}
	for i := range items {
		if err := s.check(&items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (s *zeroSlice[T]) DeserializeFull(r deser.Reader) ([]T, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	if err := r.Align(s.elem.Align()); err != nil {
		return nil, err
	}
	out, err := deser.ReadSlice[T](r, n)
	if err != nil {
		return nil, err
	}
	if err := s.checkAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *zeroSlice[T]) DeserializeEps(r *deser.Slice) ([]T, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	if err := r.Align(s.elem.Align()); err != nil {
		return nil, err
	}
	out, err := deser.View[T](r, n)
	if err != nil {
		return nil, err
	}
	if err := s.checkAll(out); err != nil {
		return nil, err
	}
	return out, nil
}

type deepSlice[T any] struct {
	elem DeepCodec[T]
}

// DeepSliceOf returns the codec of []T for a deep T. Elements are written
// one after the other after the length.
func DeepSliceOf[T any](elem DeepCodec[T]) DeepCodec[[]T] {
	return &deepSlice[T]{elem: elem}
}

func (*deepSlice[T]) Copy() Deep { return Deep{} }

func (s *deepSlice[T]) TypeName() string { return "[]" + s.elem.TypeName() }

func (*deepSlice[T]) Size() int { return int(unsafe.Sizeof([]T(nil))) }

func (*deepSlice[T]) Align() int { return Int.Align() }

func (s *deepSlice[T]) MaxAlign() int { return max(Int.Align(), s.elem.MaxAlign()) }

func (s *deepSlice[T]) TypeHash(h *TypeHasher) {
	h.WriteString("[]")
	h.Nested(func() { s.elem.TypeHash(h) })
}

func (*deepSlice[T]) IsZeroCopy() bool       { return false }
func (*deepSlice[T]) ZeroCopyMismatch() bool { return false }

func (s *deepSlice[T]) Serialize(w ser.Writer, v *[]T) error {
	if err := writeLen(w, len(*v)); err != nil {
		return err
	}
	for i := range *v {
		if err := WriteField(w, "item", s.elem, &(*v)[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *deepSlice[T]) DeserializeFull(r deser.Reader) ([]T, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, capHint(r, n))
	for i := 0; i < n; i++ {
		v, err := s.elem.DeserializeFull(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *deepSlice[T]) DeserializeEps(r *deser.Slice) ([]T, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, capHint(r, n))
	for i := 0; i < n; i++ {
		v, err := s.elem.DeserializeEps(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

type stringCodec struct{}

// String is the codec of string: a length followed by the bytes. ε-copy
// returns a string sharing the buffer's memory. The bytes are not checked
// to be valid UTF-8, like Go strings themselves.
var String DeepCodec[string] = stringCodec{}

func (stringCodec) Copy() Deep { return Deep{} }

func (stringCodec) TypeName() string { return "string" }

func (stringCodec) Size() int { return int(unsafe.Sizeof("")) }

func (stringCodec) Align() int { return Int.Align() }

func (stringCodec) MaxAlign() int { return Int.Align() }

func (stringCodec) TypeHash(h *TypeHasher) {
	h.WriteString("string")
	h.Nested(func() { Uint8.TypeHash(h) })
}

func (stringCodec) IsZeroCopy() bool       { return false }
func (stringCodec) ZeroCopyMismatch() bool { return false }

func (stringCodec) Serialize(w ser.Writer, v *string) error {
	if err := writeLen(w, len(*v)); err != nil {
		return err
	}
	return w.WriteFieldBytes("bytes", "[]uint8", 1, unsafe.Slice(unsafe.StringData(*v), len(*v)))
}

func (stringCodec) DeserializeFull(r deser.Reader) (string, error) {
	n, err := readLen(r)
	if err != nil {
		return "", err
	}
	b, err := deser.ReadSlice[byte](r, n)
	if err != nil || n == 0 {
		return "", err
	}
	// b is ours alone
	return unsafe.String(unsafe.SliceData(b), n), nil
}

func (stringCodec) DeserializeEps(r *deser.Slice) (string, error) {
	n, err := readLen(r)
	if err != nil {
		return "", err
	}
	return deser.String(r, n)
}
