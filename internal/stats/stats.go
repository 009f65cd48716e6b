// Package stats holds the process-wide counters of the engine.
package stats

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var set = metrics.NewSet()

var bytesWritten = set.NewCounter("epsilon_bytes_written_total")

// Deserialization modes.
const (
	ModeFull = "full"
	ModeEps  = "eps"
)

// BytesWritten adds n to the serialized bytes counter.
func BytesWritten(n int) {
	bytesWritten.Add(n)
}

// Deserialized counts one successful deserialization in the given mode.
func Deserialized(mode string) {
	set.GetOrCreateCounter(fmt.Sprintf(`epsilon_deserialize_total{mode=%q}`, mode)).Inc()
}

// HeaderRejected counts a header rejected for reason.
func HeaderRejected(reason string) {
	set.GetOrCreateCounter(fmt.Sprintf(`epsilon_header_rejections_total{reason=%q}`, reason)).Inc()
}

// BytesWrittenTotal returns the serialized bytes counter.
func BytesWrittenTotal() uint64 {
	return bytesWritten.Get()
}

// DeserializedTotal returns the deserialization counter for mode.
func DeserializedTotal(mode string) uint64 {
	return set.GetOrCreateCounter(fmt.Sprintf(`epsilon_deserialize_total{mode=%q}`, mode)).Get()
}

// HeaderRejectedTotal returns the rejection counter for reason.
func HeaderRejectedTotal(reason string) uint64 {
	return set.GetOrCreateCounter(fmt.Sprintf(`epsilon_header_rejections_total{reason=%q}`, reason)).Get()
}

// WritePrometheus writes every counter in Prometheus text format.
func WritePrometheus(w io.Writer) {
	set.WritePrometheus(w)
}
