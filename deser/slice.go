package deser

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/epsilon/internal/common"
)

// Slice is a cursor over a borrowed buffer. Values produced from it may
// point into the buffer, which must outlive them and must not be modified
// while they are in use.
type Slice struct {
	data []byte
	pos  int
}

func NewSlice(data []byte) *Slice {
	return &Slice{data: data}
}

func (s *Slice) Pos() int { return s.pos }

func (s *Slice) Remaining() int { return len(s.data) - s.pos }

// Data returns the whole underlying buffer.
func (s *Slice) Data() []byte { return s.data }

// Skip advances the cursor by n bytes without reading them.
func (s *Slice) Skip(n int) error {
	if n < 0 || n > s.Remaining() {
		return fmt.Errorf("%w: cannot skip %d bytes at offset %d, %d left", ErrUnexpectedEnd, n, s.pos, s.Remaining())
	}
	s.pos += n
	return nil
}

func (s *Slice) Align(align int) error {
	return s.Skip(common.PadAlignTo(s.pos, align))
}

// Bytes returns the next n bytes without copying and advances past them.
func (s *Slice) Bytes(n int) ([]byte, error) {
	start := s.pos
	if err := s.Skip(n); err != nil {
		return nil, err
	}
	return s.data[start:s.pos:s.pos], nil
}

func (s *Slice) ReadExact(p []byte) error {
	b, err := s.Bytes(len(p))
	if err != nil {
		return err
	}
	copy(p, b)
	return nil
}

// Ref reinterprets the next sizeof(T) bytes as a *T and advances past them.
// T must hold no pointers. The window must be aligned for T; the check is
// a single modulo and fails with ErrMisalignedBuffer.
func Ref[T any](s *Slice) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	b, err := s.Bytes(size)
	if err != nil {
		return nil, err
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("%w: %T at address %p", ErrMisalignedBuffer, zero, p)
	}
	return (*T)(p), nil
}

// View reinterprets the next n*sizeof(T) bytes as a []T and advances past
// them. The same requirements as Ref apply.
func View[T any](s *Slice, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if err := CheckLen(s, n, size); err != nil {
		return nil, err
	}
	if n == 0 || size == 0 {
		return make([]T, n), nil
	}
	b, err := s.Bytes(n * size)
	if err != nil {
		return nil, err
	}
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, fmt.Errorf("%w: []%T at address %p", ErrMisalignedBuffer, zero, p)
	}
	return unsafe.Slice((*T)(p), n), nil
}

// String returns the next n bytes as a string sharing the buffer's memory.
func String(s *Slice, n int) (string, error) {
	b, err := s.Bytes(n)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return unsafe.String(unsafe.SliceData(b), n), nil
}
