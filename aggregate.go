package epsilon

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/internal/common"
	"github.com/rawbytedev/epsilon/ser"
)

// Field describes one field of the aggregate S. Fields are built with
// ZeroField, DeepField or MemberField and handed, in declaration order, to
// Struct or ZeroStruct. This is the surface generated code targets.
type Field[S any] interface {
	fieldName() string
	layout() Layout
	isZero() bool
	offset() uintptr
	writeTo(w ser.Writer, s *S) error
	readFull(r deser.Reader, s *S) error
	readEps(r *deser.Slice, s *S) error
	check(s *S) error
	hasCheck() bool
}

type field[S, F any] struct {
	name string
	m    Member[F]
	get  func(*S) *F
	off  uintptr
	ck   func(*F) error
}

// MemberField describes the field of S returned by get.
func MemberField[S, F any](name string, m Member[F], get func(*S) *F) Field[S] {
	var s S
	off := uintptr(unsafe.Pointer(get(&s))) - uintptr(unsafe.Pointer(&s))
	return &field[S, F]{name: name, m: m, get: get, off: off, ck: m.check()}
}

// ZeroField describes a field of S with a zero-copy type.
func ZeroField[S, F any](name string, c ZeroCodec[F], get func(*S) *F) Field[S] {
	return MemberField(name, ZeroMember(c), get)
}

// DeepField describes a field of S with a deep type.
func DeepField[S, F any](name string, c DeepCodec[F], get func(*S) *F) Field[S] {
	return MemberField(name, DeepMember(c), get)
}

func (f *field[S, F]) fieldName() string { return f.name }
func (f *field[S, F]) layout() Layout    { return f.m }
func (f *field[S, F]) isZero() bool      { return f.m.zero() }
func (f *field[S, F]) offset() uintptr   { return f.off }
func (f *field[S, F]) hasCheck() bool    { return f.ck != nil }

func (f *field[S, F]) writeTo(w ser.Writer, s *S) error {
	w.BeginField(f.name, f.m.TypeName(), f.m.Align())
	if err := f.m.serialize(w, f.get(s)); err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	w.EndField()
	return nil
}

func (f *field[S, F]) readFull(r deser.Reader, s *S) error {
	v, err := f.m.full(r)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	*f.get(s) = v
	return nil
}

func (f *field[S, F]) readEps(r *deser.Slice, s *S) error {
	v, err := f.m.eps(r)
	if err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	*f.get(s) = v
	return nil
}

func (f *field[S, F]) check(s *S) error {
	if f.ck == nil {
		return nil
	}
	if err := f.ck(f.get(s)); err != nil {
		return fmt.Errorf("field %s: %w", f.name, err)
	}
	return nil
}

// rawLayoutProblem explains why the memory of S is not exactly the
// concatenation of fields, or returns "" when it is.
func rawLayoutProblem[S any](fields []Field[S]) string {
	t := reflect.TypeFor[S]()
	plan := common.PlanOf(t)
	switch {
	case plan.HasPadding:
		return "has padding"
	case plan.HasIndirection:
		return "holds pointers"
	case t.Kind() != reflect.Struct:
		return "is not a struct"
	case len(plan.Fields) != len(fields):
		return fmt.Sprintf("has %d fields but %d are described", len(plan.Fields), len(fields))
	}
	for i, f := range fields {
		pf := plan.Fields[i]
		if !f.isZero() || !f.layout().IsZeroCopy() {
			return fmt.Sprintf("field %s is not zero-copy", f.fieldName())
		}
		if uintptr(pf.Offset) != f.offset() || pf.Size != f.layout().Size() {
			return fmt.Sprintf("field %s does not match Go field %d (%s)", f.fieldName(), pf.Index, pf.Name)
		}
	}
	return ""
}

type deepStruct[S any] struct {
	name     string
	fields   []Field[S]
	align    int
	maxAlign int
	mismatch bool
}

// Struct returns the deep codec of the aggregate S. Fields are written in
// the given order, each one independently aligned.
func Struct[S any](fields ...Field[S]) DeepCodec[S] {
	s := &deepStruct[S]{
		name:     common.QualifiedName(reflect.TypeFor[S]()),
		fields:   fields,
		align:    1,
		maxAlign: 1,
	}
	for _, f := range fields {
		s.align = max(s.align, f.layout().Align())
		s.maxAlign = max(s.maxAlign, f.layout().MaxAlign())
	}
	s.mismatch = len(fields) > 0 && rawLayoutProblem(fields) == ""
	return s
}

func (*deepStruct[S]) Copy() Deep { return Deep{} }

func (s *deepStruct[S]) TypeName() string { return s.name }

func (*deepStruct[S]) Size() int {
	var zero S
	return int(unsafe.Sizeof(zero))
}

func (s *deepStruct[S]) Align() int    { return s.align }
func (s *deepStruct[S]) MaxAlign() int { return s.maxAlign }

func (s *deepStruct[S]) TypeHash(h *TypeHasher) {
	h.WriteString("deep")
	h.WriteString("struct")
	h.WriteInt(len(s.fields))
	for _, f := range s.fields {
		h.WriteString(f.fieldName())
		h.Nested(func() { f.layout().TypeHash(h) })
	}
	if s.mismatch {
		h.ReportMismatch(s.name)
	}
}

func (*deepStruct[S]) IsZeroCopy() bool         { return false }
func (s *deepStruct[S]) ZeroCopyMismatch() bool { return s.mismatch }

func (s *deepStruct[S]) Serialize(w ser.Writer, v *S) error {
	for _, f := range s.fields {
		if err := f.writeTo(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *deepStruct[S]) DeserializeFull(r deser.Reader) (S, error) {
	var out S
	for _, f := range s.fields {
		if err := f.readFull(r, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *deepStruct[S]) DeserializeEps(r *deser.Slice) (S, error) {
	var out S
	for _, f := range s.fields {
		if err := f.readEps(r, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}

type zeroStruct[S any] struct {
	name     string
	fields   []Field[S]
	align    int
	maxAlign int
	problem  string
	checks   bool
}

// ZeroStruct returns the zero-copy codec of the aggregate S. S must have
// no padding and no pointers, and fields must describe every Go field of
// S in declaration order with zero-copy codecs. Serializing a value of an
// S that breaks these rules panics.
func ZeroStruct[S any](fields ...Field[S]) ZeroCodec[S] {
	var zero S
	s := &zeroStruct[S]{
		name:     common.QualifiedName(reflect.TypeFor[S]()),
		fields:   fields,
		align:    int(unsafe.Alignof(zero)),
		maxAlign: int(unsafe.Alignof(zero)),
		problem:  rawLayoutProblem(fields),
	}
	for _, f := range fields {
		s.maxAlign = max(s.maxAlign, f.layout().MaxAlign())
		s.checks = s.checks || f.hasCheck()
	}
	return s
}

func (*zeroStruct[S]) Copy() Zero { return Zero{} }

func (s *zeroStruct[S]) TypeName() string { return s.name }

func (*zeroStruct[S]) Size() int {
	var zero S
	return int(unsafe.Sizeof(zero))
}

func (s *zeroStruct[S]) Align() int    { return s.align }
func (s *zeroStruct[S]) MaxAlign() int { return s.maxAlign }

// TypeHash accumulates OffsetOf across fields: the memory of the struct
// is its serialized form. The struct is aligned as a whole before its
// first field, which a deep struct is not.
func (s *zeroStruct[S]) TypeHash(h *TypeHasher) {
	h.WriteString("zero")
	h.WriteString("struct")
	padding := common.PadAlignTo(h.OffsetOf, s.align)
	h.writeRepr(padding)
	h.OffsetOf += padding
	h.WriteInt(len(s.fields))
	for _, f := range s.fields {
		h.WriteString(f.fieldName())
		f.layout().TypeHash(h)
	}
}

func (s *zeroStruct[S]) IsZeroCopy() bool     { return s.problem == "" }
func (*zeroStruct[S]) ZeroCopyMismatch() bool { return false }

func (s *zeroStruct[S]) needsCheck() bool { return s.checks }

func (s *zeroStruct[S]) Check(v *S) error {
	for _, f := range s.fields {
		if err := f.check(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *zeroStruct[S]) Serialize(w ser.Writer, v *S) error {
	if s.problem != "" {
		panic(fmt.Sprintf("epsilon: %s is declared zero-copy but %s", s.name, s.problem))
	}
	if err := w.Align(s.align); err != nil {
		return err
	}
	for _, f := range s.fields {
		if err := f.writeTo(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *zeroStruct[S]) DeserializeFull(r deser.Reader) (S, error) {
	return deserializeZeroFull(r, s.align, checkFunc[S](s))
}

func (s *zeroStruct[S]) DeserializeEps(r *deser.Slice) (*S, error) {
	return deserializeZeroEps(r, s.align, checkFunc[S](s))
}
