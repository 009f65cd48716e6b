package epsilon

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

// arrayLen returns N for A = [N]T and panics for any other A.
func arrayLen[A, T any]() int {
	at := reflect.TypeFor[A]()
	if at.Kind() != reflect.Array || at.Elem() != reflect.TypeFor[T]() {
		panic(fmt.Sprintf("epsilon: %s is not an array of %s", at, reflect.TypeFor[T]()))
	}
	return at.Len()
}

// elems returns the elements of the array *a as a slice sharing its memory.
func elems[A, T any](a *A, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(a)), n)
}

func hashArray(h *TypeHasher, n int, elem Layout) {
	h.WriteString(fmt.Sprintf("[%d]", n))
	h.WriteInt(n)
	if n > 0 {
		elem.TypeHash(h)
		h.OffsetOf += (n - 1) * elem.Size()
	}
}

type zeroArray[A, T any] struct {
	elem  ZeroCodec[T]
	n     int
	check func(*T) error
}

// ZeroArray returns the codec of A = [N]T for a zero-copy T. The array is
// written and read as one block of memory.
func ZeroArray[A, T any](elem ZeroCodec[T]) ZeroCodec[A] {
	return &zeroArray[A, T]{elem: elem, n: arrayLen[A, T](), check: checkFunc[T](elem)}
}

func (*zeroArray[A, T]) Copy() Zero { return Zero{} }

func (a *zeroArray[A, T]) TypeName() string {
	return fmt.Sprintf("[%d]%s", a.n, a.elem.TypeName())
}

func (*zeroArray[A, T]) Size() int {
	var zero A
	return int(unsafe.Sizeof(zero))
}

func (a *zeroArray[A, T]) Align() int    { return a.elem.Align() }
func (a *zeroArray[A, T]) MaxAlign() int { return a.elem.MaxAlign() }

func (a *zeroArray[A, T]) TypeHash(h *TypeHasher) { hashArray(h, a.n, a.elem) }

func (a *zeroArray[A, T]) IsZeroCopy() bool { return a.elem.IsZeroCopy() }

func (*zeroArray[A, T]) ZeroCopyMismatch() bool { return false }

func (a *zeroArray[A, T]) needsCheck() bool { return a.check != nil }

func (a *zeroArray[A, T]) Check(v *A) error {
	if a.check == nil {
		return nil
	}
	items := elems[A, T](v, a.n)
	for i := range items {
		if err := a.check(&items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (a *zeroArray[A, T]) Serialize(w ser.Writer, v *A) error {
	mustZeroCopy(a)
	return serializeZero(w, a.Align(), v)
}

func (a *zeroArray[A, T]) DeserializeFull(r deser.Reader) (A, error) {
	return deserializeZeroFull(r, a.Align(), checkFunc[A](a))
}

func (a *zeroArray[A, T]) DeserializeEps(r *deser.Slice) (*A, error) {
	return deserializeZeroEps(r, a.Align(), checkFunc[A](a))
}

type deepArray[A, T any] struct {
	elem DeepCodec[T]
	n    int
}

// DeepArray returns the codec of A = [N]T for a deep T. Elements are
// written one after the other.
func DeepArray[A, T any](elem DeepCodec[T]) DeepCodec[A] {
	return &deepArray[A, T]{elem: elem, n: arrayLen[A, T]()}
}

func (*deepArray[A, T]) Copy() Deep { return Deep{} }

func (a *deepArray[A, T]) TypeName() string {
	return fmt.Sprintf("[%d]%s", a.n, a.elem.TypeName())
}

func (*deepArray[A, T]) Size() int {
	var zero A
	return int(unsafe.Sizeof(zero))
}

func (a *deepArray[A, T]) Align() int    { return a.elem.Align() }
func (a *deepArray[A, T]) MaxAlign() int { return a.elem.MaxAlign() }

func (a *deepArray[A, T]) TypeHash(h *TypeHasher) { hashArray(h, a.n, a.elem) }

func (*deepArray[A, T]) IsZeroCopy() bool       { return false }
func (*deepArray[A, T]) ZeroCopyMismatch() bool { return false }

func (a *deepArray[A, T]) Serialize(w ser.Writer, v *A) error {
	items := elems[A, T](v, a.n)
	for i := range items {
		if err := WriteField(w, "item", a.elem, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *deepArray[A, T]) DeserializeFull(r deser.Reader) (A, error) {
	var out A
	items := elems[A, T](&out, a.n)
	for i := range items {
		v, err := a.elem.DeserializeFull(r)
		if err != nil {
			return out, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = v
	}
	return out, nil
}

func (a *deepArray[A, T]) DeserializeEps(r *deser.Slice) (A, error) {
	var out A
	items := elems[A, T](&out, a.n)
	for i := range items {
		v, err := a.elem.DeserializeEps(r)
		if err != nil {
			return out, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = v
	}
	return out, nil
}
