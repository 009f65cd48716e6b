package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/epsilon"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func storeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.eps")
	v := newSampleSet()
	require.NoError(t, epsilon.Store(path, sampleSetCodec, &v))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "epsilon v"+Version+" (format 1.0)\n", out)
}

func TestInspectText(t *testing.T) {
	path := storeSample(t)
	out, err := run(t, "inspect", path)
	require.NoError(t, err)
	require.Contains(t, out, "type name:      "+sampleSetCodec.TypeName())
	require.Contains(t, out, "version:        1.0")
}

func TestInspectYAML(t *testing.T) {
	path := storeSample(t)
	out, err := run(t, "inspect", "--format", "yaml", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(strings.TrimPrefix(out, "---\n")), &got))
	require.Equal(t, sampleSetCodec.TypeName(), got["type_name"])
	require.Equal(t, path, got["path"])
	require.Contains(t, got, "payload_offset")
}

func TestInspectRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("definitely not epsilon data"), 0o644))
	_, err := run(t, "inspect", path)
	require.ErrorIs(t, err, epsilon.ErrMagicMismatch)

	_, err = run(t, "inspect", "--format", "xml", storeSample(t))
	require.Error(t, err)
}

func TestMetrics(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte{1}, 64), 0o644))
	out, err := run(t, "metrics", garbage)
	require.NoError(t, err)
	require.Contains(t, out, "epsilon_bytes_written_total")
	require.Contains(t, out, `epsilon_header_rejections_total{reason="magic"}`)
}

func TestMetricsMissingFile(t *testing.T) {
	_, err := run(t, "metrics", filepath.Join(t.TempDir(), "absent.eps"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMetricsLogsRejections(t *testing.T) {
	short := filepath.Join(t.TempDir(), "short")
	require.NoError(t, os.WriteFile(short, []byte{1, 2, 3}, 0o644))
	out, err := run(t, "--log-level", "info", "metrics", short)
	require.NoError(t, err)
	require.Contains(t, out, "header rejected")
	require.Contains(t, out, "epsilon_bytes_written_total")
}

func TestProfile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "mem.prof")
	out, err := run(t, "profile", "--iterations", "10", "--out", dest, "--mode", "full")
	require.NoError(t, err)
	require.Contains(t, out, "10 round trips (full)")
	fi, err := os.Stat(dest)
	require.NoError(t, err)
	require.NotZero(t, fi.Size())

	_, err = run(t, "profile", "--iterations", "1", "--out", dest, "--mode", "sideways")
	require.Error(t, err)
}

func TestHasherFromEnvironment(t *testing.T) {
	t.Setenv("EPSILON_HASHER", "md5")
	_, err := run(t, "profile", "--iterations", "1", "--out", filepath.Join(t.TempDir(), "p"))
	require.Error(t, err)

	t.Setenv("EPSILON_HASHER", "blake3")
	_, err = run(t, "profile", "--iterations", "1", "--out", filepath.Join(t.TempDir(), "p"))
	require.NoError(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "version")
	require.Error(t, err)
}
