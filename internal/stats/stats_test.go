package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := BytesWrittenTotal()
	BytesWritten(40)
	require.Equal(t, before+40, BytesWrittenTotal())

	full := DeserializedTotal(ModeFull)
	Deserialized(ModeFull)
	require.Equal(t, full+1, DeserializedTotal(ModeFull))

	rej := HeaderRejectedTotal("magic")
	HeaderRejected("magic")
	require.Equal(t, rej+1, HeaderRejectedTotal("magic"))
}

func TestWritePrometheus(t *testing.T) {
	BytesWritten(1)
	Deserialized(ModeEps)
	var buf bytes.Buffer
	WritePrometheus(&buf)
	out := buf.String()
	require.Contains(t, out, "epsilon_bytes_written_total")
	require.Contains(t, out, `epsilon_deserialize_total{mode="eps"}`)
}
