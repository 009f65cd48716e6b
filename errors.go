package epsilon

import (
	"errors"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

var (
	// ErrWrite is returned when the destination rejects a write.
	ErrWrite = ser.ErrWrite
	// ErrFileOpen is returned by Store when the file cannot be created.
	ErrFileOpen = errors.New("cannot create file")

	ErrMagicMismatch        = errors.New("magic mismatch")
	ErrUnsupportedVersion   = errors.New("unsupported version")
	ErrPointerWidthMismatch = errors.New("pointer width mismatch")
	ErrTypeHashMismatch     = errors.New("type hash mismatch")
	ErrReprHashMismatch     = errors.New("representation hash mismatch")
	// ErrUnexpectedEnd is returned when the data ends before the value.
	ErrUnexpectedEnd = deser.ErrUnexpectedEnd
	// ErrMisalignedBuffer is returned by ε-copy when the buffer is not
	// aligned enough for the requested type.
	ErrMisalignedBuffer = deser.ErrMisalignedBuffer
	// ErrInvalidDiscriminant is returned when a value read has an illegal
	// bit pattern, such as a bool byte other than 0 or 1.
	ErrInvalidDiscriminant = errors.New("invalid discriminant")
)
