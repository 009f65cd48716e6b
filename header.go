package epsilon

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/bits"
	"strconv"

	"github.com/rawbytedev/epsilon/deser"
	"github.com/rawbytedev/epsilon/internal/stats"
	"github.com/rawbytedev/epsilon/ser"
)

// Version of the wire format. Data is readable when its major version
// equals VersionMajor and its minor version is at most VersionMinor.
const (
	VersionMajor uint8 = 1
	VersionMinor uint8 = 0
)

var (
	// Magic starts every serialized value. It is the native-endian reading
	// of "epsilon\x00", so data written on a machine of the other
	// endianness shows up byte-swapped.
	Magic = binary.NativeEndian.Uint64([]byte("epsilon\x00"))
	// PointerWidth is the size in bytes of int on this platform. Lengths
	// are written with it.
	PointerWidth = uint8(strconv.IntSize / 8)
)

// Header precedes the payload of every serialized value.
type Header struct {
	Magic        uint64 `yaml:"magic"`
	Major        uint8  `yaml:"major"`
	Minor        uint8  `yaml:"minor"`
	PointerWidth uint8  `yaml:"pointer_width"`
	TypeHash     uint64 `yaml:"type_hash"`
	ReprHash     uint64 `yaml:"repr_hash"`
	TypeName     string `yaml:"type_name"`
}

func newHeader(l Layout, typeHash, reprHash uint64) *Header {
	return &Header{
		Magic:        Magic,
		Major:        VersionMajor,
		Minor:        VersionMinor,
		PointerWidth: PointerWidth,
		TypeHash:     typeHash,
		ReprHash:     reprHash,
		TypeName:     l.TypeName(),
	}
}

func writeHeader(w ser.Writer, h *Header) error {
	if err := WriteField(w, "MAGIC", Uint64, &h.Magic); err != nil {
		return err
	}
	if err := WriteField(w, "VERSION_MAJOR", Uint8, &h.Major); err != nil {
		return err
	}
	if err := WriteField(w, "VERSION_MINOR", Uint8, &h.Minor); err != nil {
		return err
	}
	if err := WriteField(w, "USIZE_SIZE", Uint8, &h.PointerWidth); err != nil {
		return err
	}
	if err := WriteField(w, "TYPE_HASH", Uint64, &h.TypeHash); err != nil {
		return err
	}
	if err := WriteField(w, "REPR_HASH", Uint64, &h.ReprHash); err != nil {
		return err
	}
	return WriteField(w, "TYPE_NAME", String, &h.TypeName)
}

func reject(reason string, err error) error {
	stats.HeaderRejected(reason)
	return err
}

// ReadHeader reads a header and checks the fields that decide whether the
// rest can be parsed at all: magic, version and pointer width. The hashes
// are returned unchecked.
func ReadHeader(r deser.Reader) (*Header, error) {
	var h Header
	var err error
	if h.Magic, err = Uint64.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		if bits.ReverseBytes64(h.Magic) == Magic {
			return nil, reject("magic", fmt.Errorf("%w: data was written with the opposite endianness", ErrMagicMismatch))
		}
		return nil, reject("magic", fmt.Errorf("%w: got %#016x, want %#016x", ErrMagicMismatch, h.Magic, Magic))
	}
	if h.Major, err = Uint8.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.Minor, err = Uint8.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.Major != VersionMajor || h.Minor > VersionMinor {
		return nil, reject("version", fmt.Errorf("%w: data has version %d.%d, this build reads %d.0 to %d.%d",
			ErrUnsupportedVersion, h.Major, h.Minor, VersionMajor, VersionMajor, VersionMinor))
	}
	if h.PointerWidth, err = Uint8.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.PointerWidth != PointerWidth {
		return nil, reject("pointer_width", fmt.Errorf("%w: data was written with %d-byte words, this platform uses %d",
			ErrPointerWidthMismatch, h.PointerWidth, PointerWidth))
	}
	if h.TypeHash, err = Uint64.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.ReprHash, err = Uint64.DeserializeFull(r); err != nil {
		return nil, err
	}
	if h.TypeName, err = String.DeserializeFull(r); err != nil {
		return nil, err
	}
	return &h, nil
}

// checkHeader reads the header and compares its hashes with those of l.
// Nothing past the header is read when it fails.
func checkHeader(r deser.Reader, l Layout, cfg Config) error {
	h, err := ReadHeader(r)
	if err != nil {
		cfg.Logger.Debug("header rejected", slog.Any("err", err))
		return err
	}
	th := NewTypeHasher(cfg.Hasher)
	l.TypeHash(th)
	reportMismatches(cfg.Logger, th.Mismatches())
	if got := th.Type.Sum64(); h.TypeHash != got {
		err = reject("type_hash", fmt.Errorf("%w: data holds %s (%#016x), reading %s (%#016x)",
			ErrTypeHashMismatch, h.TypeName, h.TypeHash, l.TypeName(), got))
	} else if got := th.Repr.Sum64(); h.ReprHash != got {
		err = reject("repr_hash", fmt.Errorf("%w: data holds %s (%#016x), reading %s (%#016x)",
			ErrReprHashMismatch, h.TypeName, h.ReprHash, l.TypeName(), got))
	}
	if err != nil {
		cfg.Logger.Debug("header rejected", slog.Any("err", err))
	}
	return err
}
