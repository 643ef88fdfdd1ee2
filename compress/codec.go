package compress

import (
	"fmt"
	"strings"

	"github.com/arloliu/sbfs/errs"
)

// Type identifies a compression codec. The value is stored in the header of
// cache snapshots, so existing values must never be renumbered.
type Type uint8

const (
	None Type = 0x1 // None stores payloads uncompressed.
	Zstd Type = 0x2 // Zstd is Zstandard compression.
	S2   Type = 0x3 // S2 is klauspost S2 compression.
	LZ4  Type = 0x4 // LZ4 is LZ4 block compression.
)

var typeNames = map[Type]string{
	None: "none",
	Zstd: "zstd",
	S2:   "s2",
	LZ4:  "lz4",
}

// String returns the lower-case codec name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// ParseType resolves a codec name case-insensitively. An empty name is None.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCodec, name)
}

// Compressor compresses a complete payload.
//
// The returned slice is owned by the caller and the input is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same codec. It returns an error
// when the input is corrupted or was produced by a different codec.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. Built-in codecs are safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[Type]Codec{
	None: NewNoOpCompressor(),
	Zstd: NewZstdCompressor(),
	S2:   NewS2Compressor(),
	LZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for t.
//
// Parameters:
//   - t: codec type read from configuration or a snapshot header
//
// Returns:
//   - Codec: shared codec instance
//   - error: ErrUnsupportedCodec for unknown types
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCodec, t)
}
