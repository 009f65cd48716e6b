package epsilon

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rawbytedev/epsilon/deser"
)

// Store serializes v into the file at path. When writing fails the
// partial file is left on disk.
func Store[T, V any, S Selector](path string, c Codec[T, V, S], v *T, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer f.Close()
	if _, err := Serialize(bufio.NewWriter(f), c, v, opts...); err != nil {
		return err
	}
	return f.Close()
}

// Load reads the file at path with DeserializeFull.
func Load[T, V any, S Selector](path string, c Codec[T, V, S], opts ...Option) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()
	return DeserializeFull(bufio.NewReader(f), c, opts...)
}

// LoadEps reads the whole file at path into a buffer aligned to
// deser.DefaultAlignment and returns a view over it. The buffer lives as
// long as the view does.
func LoadEps[T, V any, S Selector](path string, c Codec[T, V, S], opts ...Option) (V, error) {
	var zero V
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	hint := 0
	if fi, err := f.Stat(); err == nil {
		hint = int(fi.Size()) + 1
	}
	buf, err := deser.ReadAligned(f, hint, deser.DefaultAlignment)
	if err != nil {
		return zero, err
	}
	return DeserializeEps(buf, c, opts...)
}
