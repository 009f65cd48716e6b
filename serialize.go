package epsilon

import (
	"bytes"
	"io"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/internal/stats"
	"github.com/rawbytedev/epsilon/ser"
)

// serializeTo writes the header and then v as the field ROOT.
func serializeTo[T, V any, S Selector](w ser.Writer, c Codec[T, V, S], v *T, cfg Config) error {
	h := NewTypeHasher(cfg.Hasher)
	c.TypeHash(h)
	reportMismatches(cfg.Logger, h.Mismatches())
	if err := writeHeader(w, newHeader(c, h.Type.Sum64(), h.Repr.Sum64())); err != nil {
		return err
	}
	if err := WriteField(w, "ROOT", c, v); err != nil {
		return err
	}
	return w.Flush()
}

// Serialize writes v to w and returns the number of bytes written.
func Serialize[T, V any, S Selector](w io.Writer, c Codec[T, V, S], v *T, opts ...Option) (int, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, err
	}
	pw := ser.NewPosWriter(w)
	err = serializeTo(pw, c, v, cfg)
	stats.BytesWritten(pw.Pos())
	return pw.Pos(), err
}

// SerializeWithSchema writes v to w like Serialize and also returns where
// every field landed.
func SerializeWithSchema[T, V any, S Selector](w io.Writer, c Codec[T, V, S], v *T, opts ...Option) (*ser.Schema, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	sw := ser.NewSchemaWriter(ser.NewPosWriter(w))
	err = serializeTo(sw, c, v, cfg)
	stats.BytesWritten(sw.Pos())
	if err != nil {
		return nil, err
	}
	return &sw.Schema, nil
}

// Marshal returns the serialized form of v in a buffer aligned to
// deser.DefaultAlignment, ready for DeserializeEps.
func Marshal[T, V any, S Selector](c Codec[T, V, S], v *T, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Serialize(&buf, c, v, opts...); err != nil {
		return nil, err
	}
	return deser.AlignedCopy(buf.Bytes(), deser.DefaultAlignment), nil
}
