// Package deser contains the read backends: a sequential stream cursor
// used for full-copy reconstruction and a slice cursor over a borrowed
// buffer used for ε-copy reconstruction.
package deser

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/rawbytedev/epsilon/internal/common"
)

var (
	// ErrUnexpectedEnd is returned when a read goes past the end of the data.
	ErrUnexpectedEnd = errors.New("unexpected end of data")
	// ErrMisalignedBuffer is returned when memory is not aligned enough to be
	// reinterpreted as the requested type.
	ErrMisalignedBuffer = errors.New("misaligned buffer")
)

// Reader is the contract full-copy deserializers read through. Both Stream
// and Slice implement it.
type Reader interface {
	// Pos returns how many bytes were consumed since the start of the stream.
	Pos() int
	// Align consumes the padding the writer inserted to align Pos.
	Align(align int) error
	// ReadExact fills p completely or fails with ErrUnexpectedEnd.
	ReadExact(p []byte) error
	// Remaining returns how many bytes are left, or -1 when unknown.
	Remaining() int
}

// Stream is a forward-only cursor over an io.Reader.
type Stream struct {
	r       io.Reader
	pos     int
	scratch [64]byte
}

func NewStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

func (s *Stream) Pos() int { return s.pos }

func (s *Stream) ReadExact(p []byte) error {
	n, err := io.ReadFull(s.r, p)
	s.pos += n
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: wanted %d bytes at offset %d, got %d", ErrUnexpectedEnd, len(p), s.pos-n, n)
		}
		return err
	}
	return nil
}

func (s *Stream) Align(align int) error {
	padding := common.PadAlignTo(s.pos, align)
	for padding > 0 {
		chunk := min(padding, len(s.scratch))
		if err := s.ReadExact(s.scratch[:chunk]); err != nil {
			return err
		}
		padding -= chunk
	}
	return nil
}

// Remaining is known when the underlying reader reports its length, as
// bytes.Reader and strings.Reader do.
func (s *Stream) Remaining() int {
	if l, ok := s.r.(interface{ Len() int }); ok {
		return l.Len()
	}
	return -1
}

// CheckLen fails with ErrUnexpectedEnd when n elements of size bytes each
// cannot possibly fit in what r has left. It runs before allocating for a
// length read from the data.
func CheckLen(r Reader, n, size int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrUnexpectedEnd, n)
	}
	rem := r.Remaining()
	if rem < 0 || size == 0 {
		return nil
	}
	if n > rem/size {
		return fmt.Errorf("%w: %d elements of %d bytes exceed the %d bytes left", ErrUnexpectedEnd, n, size, rem)
	}
	return nil
}

// readChunk bounds how much memory a length read from a stream of unknown
// size can make us allocate before the data backs it.
const readChunk = 1 << 20

// ReadSlice reads n elements of T into freshly allocated memory. T must
// hold no pointers. When the input length is unknown the slice grows in
// chunks, so a corrupt length fails with ErrUnexpectedEnd instead of
// allocating all of it upfront.
func ReadSlice[T any](r Reader, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if err := CheckLen(r, n, size); err != nil {
		return nil, err
	}
	if size == 0 {
		return make([]T, n), nil
	}
	step := n
	if r.Remaining() < 0 {
		step = max(readChunk/size, 1)
	}
	out := make([]T, 0, min(n, step))
	for len(out) < n {
		m := min(n-len(out), step)
		out = append(out, make([]T, m)...)
		next := out[len(out)-m:]
		raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(next))), m*size)
		if err := r.ReadExact(raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}
