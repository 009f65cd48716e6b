package deser

import (
	"fmt"
	"io"
	"unsafe"
)

// DefaultAlignment is the base address alignment used for buffers handed
// to ε-copy deserialization. It exceeds the alignment of every type the
// engine can reinterpret.
const DefaultAlignment = 4096

// AlignedBuffer returns a zeroed n-byte slice whose first byte is aligned
// to align, which must be a power of two.
func AlignedBuffer(n, align int) []byte {
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("deser: alignment %d is not a power of two", align))
	}
	raw := make([]byte, n+align)
	off := 0
	if n+align > 0 {
		addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
		off = int((uintptr(align) - addr%uintptr(align)) % uintptr(align))
	}
	return raw[off : off+n : off+n]
}

// AlignedCopy copies p into a fresh buffer aligned to align.
func AlignedCopy(p []byte, align int) []byte {
	buf := AlignedBuffer(len(p), align)
	copy(buf, p)
	return buf
}

// ReadAligned reads r to the end into a buffer aligned to align.
func ReadAligned(r io.Reader, sizeHint, align int) ([]byte, error) {
	buf := AlignedBuffer(max(sizeHint, 512), align)
	n := 0
	for {
		if n == len(buf) {
			grown := AlignedBuffer(2*len(buf), align)
			copy(grown, buf)
			buf = grown
		}
		m, err := r.Read(buf[n:])
		n += m
		if err == io.EOF {
			return buf[:n:n], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// IsAligned reports whether the first byte of p is aligned to align.
func IsAligned(p []byte, align int) bool {
	if len(p) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(p)))%uintptr(align) == 0
}
