package epsilon

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

// bytesOf returns the memory of *v. T must hold no pointers.
func bytesOf[T any](v *T) []byte {
	n := unsafe.Sizeof(*v)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), n)
}

// sliceBytes returns the memory of the elements of s.
func sliceBytes[T any](s []T) []byte {
	var zero T
	n := len(s) * int(unsafe.Sizeof(zero))
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n)
}

// mustZeroCopy stops serialization of a value declared zero-copy whose
// layout does not allow it. Writing it would produce data no reader can
// detect as wrong.
func mustZeroCopy(l Layout) {
	if !l.IsZeroCopy() {
		panic(fmt.Sprintf("epsilon: %s is declared zero-copy but has padding or indirection", l.TypeName()))
	}
}

func serializeZero[T any](w ser.Writer, align int, v *T) error {
	if err := w.Align(align); err != nil {
		return err
	}
	return w.Write(bytesOf(v))
}

func deserializeZeroFull[T any](r deser.Reader, align int, check func(*T) error) (T, error) {
	var v T
	if err := r.Align(align); err != nil {
		return v, err
	}
	if err := r.ReadExact(bytesOf(&v)); err != nil {
		return v, err
	}
	if check != nil {
		if err := check(&v); err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}

func deserializeZeroEps[T any](r *deser.Slice, align int, check func(*T) error) (*T, error) {
	if err := r.Align(align); err != nil {
		return nil, err
	}
	v, err := deser.Ref[T](r)
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}
