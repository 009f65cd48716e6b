package epsilon

import (
	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

// Member adapts a codec of either strategy so it can be part of an
// aggregate. In ε-copy mode a zero-copy member is copied out of the
// buffer into the aggregate's view, while the slices and strings of deep
// members keep pointing into the buffer.
type Member[T any] interface {
	Layout
	zero() bool
	check() func(*T) error
	serialize(w ser.Writer, v *T) error
	full(r deser.Reader) (T, error)
	eps(r *deser.Slice) (T, error)
}

type zeroMember[T any] struct {
	c  ZeroCodec[T]
	ck func(*T) error
}

// ZeroMember wraps a zero-copy codec.
func ZeroMember[T any](c ZeroCodec[T]) Member[T] {
	return zeroMember[T]{c: c, ck: checkFunc[T](c)}
}

func (m zeroMember[T]) TypeName() string       { return m.c.TypeName() }
func (m zeroMember[T]) Size() int              { return m.c.Size() }
func (m zeroMember[T]) Align() int             { return m.c.Align() }
func (m zeroMember[T]) MaxAlign() int          { return m.c.MaxAlign() }
func (m zeroMember[T]) TypeHash(h *TypeHasher) { m.c.TypeHash(h) }
func (m zeroMember[T]) IsZeroCopy() bool       { return m.c.IsZeroCopy() }
func (m zeroMember[T]) ZeroCopyMismatch() bool { return m.c.ZeroCopyMismatch() }
func (zeroMember[T]) zero() bool               { return true }
func (m zeroMember[T]) check() func(*T) error  { return m.ck }

func (m zeroMember[T]) serialize(w ser.Writer, v *T) error { return m.c.Serialize(w, v) }

func (m zeroMember[T]) full(r deser.Reader) (T, error) { return m.c.DeserializeFull(r) }

func (m zeroMember[T]) eps(r *deser.Slice) (T, error) {
	p, err := m.c.DeserializeEps(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

type deepMember[T any] struct {
	c DeepCodec[T]
}

// DeepMember wraps a deep codec.
func DeepMember[T any](c DeepCodec[T]) Member[T] {
	return deepMember[T]{c: c}
}

func (m deepMember[T]) TypeName() string       { return m.c.TypeName() }
func (m deepMember[T]) Size() int              { return m.c.Size() }
func (m deepMember[T]) Align() int             { return m.c.Align() }
func (m deepMember[T]) MaxAlign() int          { return m.c.MaxAlign() }
func (m deepMember[T]) TypeHash(h *TypeHasher) { m.c.TypeHash(h) }
func (m deepMember[T]) IsZeroCopy() bool       { return false }
func (m deepMember[T]) ZeroCopyMismatch() bool { return m.c.ZeroCopyMismatch() }
func (deepMember[T]) zero() bool               { return false }
func (deepMember[T]) check() func(*T) error    { return nil }

func (m deepMember[T]) serialize(w ser.Writer, v *T) error { return m.c.Serialize(w, v) }

func (m deepMember[T]) full(r deser.Reader) (T, error) { return m.c.DeserializeFull(r) }

func (m deepMember[T]) eps(r *deser.Slice) (T, error) { return m.c.DeserializeEps(r) }
