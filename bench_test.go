package epsilon

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func benchRecord() record {
	v := sampleRecord()
	v.Samples = make([]float64, 4096)
	for i := range v.Samples {
		v.Samples[i] = float64(i) / 3
	}
	return v
}

func BenchmarkSerialize(b *testing.B) {
	v := benchRecord()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Serialize(io.Discard, recordCodec, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeserializeFull(b *testing.B) {
	v := benchRecord()
	buf, err := Marshal(recordCodec, &v)
	require.NoError(b, err)
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		if _, err := DeserializeFull(bytes.NewReader(buf), recordCodec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeserializeEps(b *testing.B) {
	v := benchRecord()
	buf, err := Marshal(recordCodec, &v)
	require.NoError(b, err)
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for i := 0; i < b.N; i++ {
		if _, err := DeserializeEps(buf, recordCodec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEpsLargeArray(b *testing.B) {
	var big [1 << 16]uint64
	c := ZeroArray[[1 << 16]uint64](Uint64)
	buf, err := Marshal(c, &big)
	require.NoError(b, err)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DeserializeEps(buf, c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkYaml(b *testing.B) {
	v := benchRecord()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		data, err := yaml.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		var out record
		if err := yaml.Unmarshal(data, &out); err != nil {
			b.Fatal(err)
		}
	}
}
