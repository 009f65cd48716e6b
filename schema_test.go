package epsilon

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/ser"
)

func reserialize(t *testing.T, fn func(w ser.Writer) error) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, fn(ser.NewPosWriter(&b)))
	return b.Bytes()
}

func rowByField(t *testing.T, s *ser.Schema, field string) ser.SchemaRow {
	t.Helper()
	for _, row := range s.Rows {
		if row.Field == field {
			return row
		}
	}
	t.Fatalf("no row %q", field)
	return ser.SchemaRow{}
}

// requireLeavesCover checks that leaf rows and padding rows tile the
// stream: their sizes add up to its length and every leaf is aligned.
func requireLeavesCover(t *testing.T, s *ser.Schema, data []byte) {
	t.Helper()
	total := 0
	for i, row := range s.Rows {
		if !s.IsLeaf(i) {
			continue
		}
		require.Zero(t, row.Offset%max(row.Align, 1), "leaf %s at %d", row.Field, row.Offset)
		total += row.Size
	}
	require.Equal(t, len(data), total)
}

type flagged struct {
	Flag uint8
	P    point
}

var flaggedCodec = Struct(
	ZeroField("flag", Uint8, func(f *flagged) *uint8 { return &f.Flag }),
	ZeroField("p", pointCodec, func(f *flagged) *point { return &f.P }),
)

func TestSchemaIntegrityZeroStructAfterPadding(t *testing.T) {
	v := flagged{Flag: 1, P: point{X: 2, Y: 3}}
	var out bytes.Buffer
	schema, err := SerializeWithSchema(&out, flaggedCodec, &v)
	require.NoError(t, err)
	data := out.Bytes()
	requireLeavesCover(t, schema, data)

	flag := rowByField(t, schema, "ROOT.flag")
	p := rowByField(t, schema, "ROOT.p")
	require.Greater(t, p.Offset, flag.Offset+1, "the struct must need padding here")
	require.Zero(t, p.Offset%4)
	require.Equal(t, 8, p.Size)
	require.Equal(t, p.Offset, rowByField(t, schema, "ROOT.p.x").Offset)
	require.Equal(t, p.Offset+4, rowByField(t, schema, "ROOT.p.y").Offset)

	for i, row := range schema.Rows {
		if row.Field == "ROOT.p" {
			require.False(t, schema.IsLeaf(i))
			require.Equal(t, "ROOT.p.x", schema.Rows[i+1].Field)
		}
	}
	require.Contains(t, schema.Debug(data), fmt.Sprintf("ROOT.p,%d,4,8,%s,\n", p.Offset, pointCodec.TypeName()))

	got, err := DeserializeEps(deser.AlignedCopy(data, deser.DefaultAlignment), flaggedCodec)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestSchemaIntegrity(t *testing.T) {
	v := sampleRecord()
	var out bytes.Buffer
	schema, err := SerializeWithSchema(&out, recordCodec, &v)
	require.NoError(t, err)
	data := out.Bytes()

	for _, row := range schema.Rows {
		require.Zero(t, row.Offset%max(row.Align, 1), "row %s at %d", row.Field, row.Offset)
	}
	requireLeavesCover(t, schema, data)

	slice := func(row ser.SchemaRow) []byte { return data[row.Offset : row.Offset+row.Size] }

	require.Equal(t, reserialize(t, func(w ser.Writer) error { return Uint64.Serialize(w, &v.ID) }),
		slice(rowByField(t, schema, "ROOT.id")))
	require.Equal(t, reserialize(t, func(w ser.Writer) error { return ZeroArray[[4]bool](Bool).Serialize(w, &v.Flags) }),
		slice(rowByField(t, schema, "ROOT.flags")))
	require.Equal(t, reserialize(t, func(w ser.Writer) error { return pointCodec.Serialize(w, &v.Origin) }),
		slice(rowByField(t, schema, "ROOT.origin")))
	require.Equal(t, reserialize(t, func(w ser.Writer) error { return Int32.Serialize(w, &v.Origin.Y) }),
		slice(rowByField(t, schema, "ROOT.origin.y")))
	require.Equal(t, []byte(v.Name), slice(rowByField(t, schema, "ROOT.name.bytes")))
	require.Equal(t, sliceBytes(v.Samples), slice(rowByField(t, schema, "ROOT.samples.items")))

	// same bytes as without a schema
	var plain bytes.Buffer
	_, err = Serialize(&plain, recordCodec, &v)
	require.NoError(t, err)
	require.Equal(t, plain.Bytes(), data)
}

func TestSchemaHeaderRows(t *testing.T) {
	v := uint64(3)
	var out bytes.Buffer
	schema, err := SerializeWithSchema(&out, Uint64, &v)
	require.NoError(t, err)

	require.Equal(t, ser.SchemaRow{Field: "MAGIC", Type: "uint64", Offset: 0, Size: 8, Align: 8}, schema.Rows[0])
	require.Equal(t, ser.SchemaRow{Field: "VERSION_MAJOR", Type: "uint8", Offset: 8, Size: 1, Align: 1}, schema.Rows[1])
	require.Equal(t, ser.SchemaRow{Field: "VERSION_MINOR", Type: "uint8", Offset: 9, Size: 1, Align: 1}, schema.Rows[2])
	require.Equal(t, ser.SchemaRow{Field: "USIZE_SIZE", Type: "uint8", Offset: 10, Size: 1, Align: 1}, schema.Rows[3])
	require.Equal(t, ser.SchemaRow{Field: "PADDING", Type: "[u8; 5]", Offset: 11, Size: 5, Align: 1}, schema.Rows[4])
	require.Equal(t, ser.SchemaRow{Field: "TYPE_HASH", Type: "uint64", Offset: 16, Size: 8, Align: 8}, schema.Rows[5])
	require.Equal(t, ser.SchemaRow{Field: "REPR_HASH", Type: "uint64", Offset: 24, Size: 8, Align: 8}, schema.Rows[6])
	require.Equal(t, "TYPE_NAME", schema.Rows[7].Field)

	root := rowByField(t, schema, "ROOT")
	require.Equal(t, out.Len()-8, root.Offset)
	require.Equal(t, 8, root.Size)

	schema.Sort()
	for i := 1; i < len(schema.Rows); i++ {
		require.LessOrEqual(t, schema.Rows[i-1].Offset, schema.Rows[i].Offset)
	}
}

func TestSchemaRenderings(t *testing.T) {
	v := sampleRecord()
	var out bytes.Buffer
	schema, err := SerializeWithSchema(&out, recordCodec, &v)
	require.NoError(t, err)

	require.Contains(t, schema.CSV(), "ROOT.samples.items,")
	require.Contains(t, schema.Debug(out.Bytes()), "ROOT.name.bytes,")

	y, err := schema.YAML()
	require.NoError(t, err)
	require.Contains(t, string(y), "field: ROOT.tags")

	c, err := schema.CBOR()
	require.NoError(t, err)
	back, err := ser.DecodeCBOR(c)
	require.NoError(t, err)
	require.Equal(t, schema, back)
}
