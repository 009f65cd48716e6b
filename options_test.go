package epsilon

import (
	"testing"

	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/epsilon/hashing"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{Hasher: hashing.XXHash}.Validate())
	require.NoError(t, Config{Hasher: hashing.BLAKE3}.Validate())

	err := Config{Hasher: "md5"}.Validate()
	require.Error(t, err)
	errs, ok := err.(errsx.Map)
	require.True(t, ok, "expected errsx.Map, got %T", err)
	require.Len(t, errs, 1)
	require.Contains(t, errs, "hasher")
}

func TestInvalidOptionRejected(t *testing.T) {
	v := uint64(1)
	_, err := Marshal(Uint64, &v, WithHasher("md5"))
	require.Error(t, err)

	buf, err := Marshal(Uint64, &v)
	require.NoError(t, err)
	_, err = DeserializeEps(buf, Uint64, WithHasher("sha1"))
	require.Error(t, err)
}
