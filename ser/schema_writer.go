package ser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rawbytedev/epsilon/internal/common"
)

// SchemaWriter records a Schema row for every field while forwarding the
// bytes to a PosWriter.
type SchemaWriter struct {
	Schema Schema
	// path of the currently open fields
	path []string
	// index of the row opened by each entry of path
	open []int
	w    *PosWriter
}

func NewSchemaWriter(w *PosWriter) *SchemaWriter {
	return &SchemaWriter{w: w}
}

func (s *SchemaWriter) Pos() int { return s.w.Pos() }

func (s *SchemaWriter) Write(p []byte) error { return s.w.Write(p) }

func (s *SchemaWriter) Flush() error { return s.w.Flush() }

// Align records a PADDING row. Rows were pushed with the offset known when
// their field was opened; fields opened at the current position have no
// bytes yet, so they move forward past the padding and the PADDING row is
// placed before them. A composite thus stays directly followed by its
// first child.
func (s *SchemaWriter) Align(align int) error {
	pos := s.Pos()
	padding := common.PadAlignTo(pos, align)
	if padding == 0 {
		return nil
	}
	rows := s.Schema.Rows
	k := len(rows)
	for k > 0 && rows[k-1].Offset >= pos {
		k--
		rows[k].Offset += padding
	}
	s.Schema.Rows = slices.Insert(rows, k, SchemaRow{
		Field:  "PADDING",
		Type:   fmt.Sprintf("[u8; %d]", padding),
		Offset: pos,
		Size:   padding,
		Align:  1,
	})
	for i := range s.open {
		if s.open[i] >= k {
			s.open[i]++
		}
	}
	return s.w.pad(padding)
}

func (s *SchemaWriter) BeginField(name, typeName string, align int) {
	s.path = append(s.path, name)
	s.open = append(s.open, len(s.Schema.Rows))
	s.Schema.Rows = append(s.Schema.Rows, SchemaRow{
		Field:  strings.Join(s.path, "."),
		Type:   typeName,
		Offset: s.Pos(),
		Align:  align,
	})
}

func (s *SchemaWriter) EndField() {
	n := len(s.open) - 1
	idx := s.open[n]
	s.Schema.Rows[idx].Size = s.Pos() - s.Schema.Rows[idx].Offset
	s.open = s.open[:n]
	s.path = s.path[:n]
}

func (s *SchemaWriter) WriteFieldBytes(name, typeName string, align int, p []byte) error {
	if err := s.Align(align); err != nil {
		return err
	}
	s.path = append(s.path, name)
	s.Schema.Rows = append(s.Schema.Rows, SchemaRow{
		Field:  strings.Join(s.path, "."),
		Type:   typeName,
		Offset: s.Pos(),
		Size:   len(p),
		Align:  align,
	})
	s.path = s.path[:len(s.path)-1]
	return s.w.Write(p)
}
