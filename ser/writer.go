// Package ser contains the write backends: a position-tracking writer that
// inserts alignment padding, and a schema recorder that decorates it.
package ser

import (
	"errors"
	"fmt"
	"io"

	"github.com/rawbytedev/epsilon/internal/common"
)

// ErrWrite is returned when the underlying sink rejects a write.
var ErrWrite = errors.New("write error")

// Writer is the contract every serializer writes through. Implementations
// track the absolute position since the start of the stream, which is what
// alignment is computed against.
type Writer interface {
	// Pos returns how many bytes were written since the start of the stream.
	Pos() int
	// Write appends p verbatim.
	Write(p []byte) error
	// Align writes the minimal number of zero bytes making Pos a multiple
	// of align.
	Align(align int) error
	// BeginField opens a named field; EndField closes the last one.
	BeginField(name, typeName string, align int)
	EndField()
	// WriteFieldBytes aligns and appends a pre-formatted run of bytes as a
	// single leaf field. It is the bulk path for zero-copy data.
	WriteFieldBytes(name, typeName string, align int, p []byte) error
	Flush() error
}

var zeros [64]byte

// PosWriter is the plain backend: it forwards bytes to an io.Writer and
// counts them.
type PosWriter struct {
	w   io.Writer
	pos int
}

func NewPosWriter(w io.Writer) *PosWriter {
	return &PosWriter{w: w}
}

func (p *PosWriter) Pos() int { return p.pos }

func (p *PosWriter) Write(b []byte) error {
	n, err := p.w.Write(b)
	p.pos += n
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: %w", ErrWrite, io.ErrShortWrite)
	}
	return nil
}

func (p *PosWriter) Align(align int) error {
	return p.pad(common.PadAlignTo(p.pos, align))
}

func (p *PosWriter) pad(n int) error {
	for n > 0 {
		chunk := min(n, len(zeros))
		if err := p.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func (p *PosWriter) BeginField(string, string, int) {}
func (p *PosWriter) EndField()                      {}

func (p *PosWriter) WriteFieldBytes(_, _ string, align int, b []byte) error {
	if err := p.Align(align); err != nil {
		return err
	}
	return p.Write(b)
}

// Flush flushes the underlying writer when it buffers.
func (p *PosWriter) Flush() error {
	if f, ok := p.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	return nil
}
