package ser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// SchemaRow describes where one field landed in the serialized stream.
type SchemaRow struct {
	// Field is the dot-joined path of field names.
	Field string `yaml:"field" cbor:"1,keyasint"`
	// Type is the declared type name of the field.
	Type string `yaml:"type" cbor:"2,keyasint"`
	// Offset from the start of the stream.
	Offset int `yaml:"offset" cbor:"3,keyasint"`
	// Size in bytes, padding excluded.
	Size int `yaml:"size" cbor:"4,keyasint"`
	// Align is the alignment the field required.
	Align int `yaml:"align" cbor:"5,keyasint"`
}

// Schema is the layout of a serialized value. Rows are in the order their
// fields were opened, with a PADDING row ahead of the rows it pushed
// forward. That is not necessarily ascending offset order.
type Schema struct {
	Rows []SchemaRow `yaml:"rows" cbor:"1,keyasint"`
}

// IsLeaf reports whether row i carries bytes of its own. A row followed by
// a row at the same offset is a composite whose children follow it; the
// last row is always a leaf.
func (s *Schema) IsLeaf(i int) bool {
	return i == len(s.Rows)-1 || s.Rows[i].Offset != s.Rows[i+1].Offset
}

// Sort orders the rows by offset. Rows sharing an offset keep their
// relative order so composites still precede their children.
func (s *Schema) Sort() {
	slices.SortStableFunc(s.Rows, func(a, b SchemaRow) int {
		return a.Offset - b.Offset
	})
}

// Debug returns the CSV form of the schema where every leaf row also
// carries the hex of its bytes in data. The output is larger than data,
// so don't call it on big values.
func (s *Schema) Debug(data []byte) string {
	var b strings.Builder
	b.WriteString("field,offset,align,size,ty,bytes\n")
	for i, row := range s.Rows {
		fmt.Fprintf(&b, "%s,%d,%d,%d,%s,", row.Field, row.Offset, row.Align, row.Size, row.Type)
		if s.IsLeaf(i) && row.Offset+row.Size <= len(data) {
			writeHex(&b, data[row.Offset:row.Offset+row.Size])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeHex(b *strings.Builder, p []byte) {
	b.WriteByte('[')
	for i, c := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%02x", c)
	}
	b.WriteByte(']')
}

// CSV returns the schema as CSV without data bytes.
func (s *Schema) CSV() string {
	var b strings.Builder
	b.WriteString("field,offset,align,size,ty\n")
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "%s,%d,%d,%d,%s\n", row.Field, row.Offset, row.Align, row.Size, row.Type)
	}
	return b.String()
}

func (s *Schema) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("ser: CBOR encoder initialization failed: " + err.Error())
	}
}

// CBOR encodes the schema with core deterministic encoding, for tools
// reading the layout from other languages.
func (s *Schema) CBOR() ([]byte, error) {
	return cborEnc.Marshal(s)
}

// DecodeCBOR is the inverse of Schema.CBOR.
func DecodeCBOR(data []byte) (*Schema, error) {
	var s Schema
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
