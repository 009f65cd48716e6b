package epsilon

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/internal/stats"
)

// DeserializeFull reads a value written by Serialize and returns an
// independent copy of it.
func DeserializeFull[T, V any, S Selector](r io.Reader, c Codec[T, V, S], opts ...Option) (T, error) {
	var zero T
	cfg, err := newConfig(opts)
	if err != nil {
		return zero, err
	}
	s := deser.NewStream(r)
	if err := checkHeader(s, c, cfg); err != nil {
		return zero, err
	}
	v, err := c.DeserializeFull(s)
	if err != nil {
		return zero, err
	}
	stats.Deserialized(stats.ModeFull)
	return v, nil
}

// DeserializeEps returns a view of the value serialized in buf. The view
// points into buf: buf must stay unmodified while the view is in use.
//
// The base address of buf must be aligned to c.MaxAlign(), and to 8 for
// the header. Buffers from Marshal, LoadEps and deser.AlignedBuffer
// always are.
func DeserializeEps[T, V any, S Selector](buf []byte, c Codec[T, V, S], opts ...Option) (V, error) {
	var zero V
	cfg, err := newConfig(opts)
	if err != nil {
		return zero, err
	}
	if len(buf) == 0 {
		return zero, fmt.Errorf("%w: empty buffer", ErrUnexpectedEnd)
	}
	align := max(c.MaxAlign(), Uint64.Align())
	if !deser.IsAligned(buf, align) {
		return zero, fmt.Errorf("%w: buffer at %p is not aligned to %d bytes", ErrMisalignedBuffer, unsafe.SliceData(buf), align)
	}
	s := deser.NewSlice(buf)
	if err := checkHeader(s, c, cfg); err != nil {
		return zero, err
	}
	v, err := c.DeserializeEps(s)
	if err != nil {
		return zero, err
	}
	stats.Deserialized(stats.ModeEps)
	return v, nil
}
