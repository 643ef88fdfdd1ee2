package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/sbfs/compress"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/internal/hash"
	"github.com/arloliu/sbfs/internal/options"
	"github.com/arloliu/sbfs/internal/pool"
	"github.com/arloliu/sbfs/score"
)

// Snapshot layout:
//
//	magic    [4]byte  "SBFC"
//	version  uint8
//	codec    uint8    compress.Type
//	checksum uint64   xxHash64 of the uncompressed payload, little endian
//	payload  []byte   compressed entry list
//
// The payload is a uvarint entry count followed by, per entry, the key string,
// a uvarint metric count and (name string, float64 bits) per metric. Strings
// are uvarint length prefixed.
var snapshotMagic = [4]byte{'S', 'B', 'F', 'C'}

const (
	snapshotVersion    = 1
	snapshotHeaderSize = 4 + 1 + 1 + 8
)

// DefaultCodec is the codec used by MarshalBinary.
const DefaultCodec = compress.Zstd

type snapshotConfig struct {
	codec compress.Type
}

// SnapshotOption configures Snapshot.
type SnapshotOption = options.Option[*snapshotConfig]

// WithCodec selects the compression codec of a snapshot.
func WithCodec(t compress.Type) SnapshotOption {
	return options.New(func(cfg *snapshotConfig) error {
		if _, err := compress.GetCodec(t); err != nil {
			return err
		}
		cfg.codec = t

		return nil
	})
}

// Snapshot encodes the cache in insertion order.
func (c *Cache) Snapshot(opts ...SnapshotOption) ([]byte, error) {
	cfg := &snapshotConfig{codec: DefaultCodec}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.codec)
	if err != nil {
		return nil, err
	}

	buf := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(buf)

	keys := make([]string, 0, c.Len())
	records := make([]score.Record, 0, cap(keys))
	for key, record := range c.All() {
		keys = append(keys, key)
		records = append(records, record)
	}

	buf.AppendUvarint(uint64(len(keys)))
	for i, key := range keys {
		buf.AppendString(key)
		buf.AppendUvarint(uint64(len(records[i])))
		for _, m := range records[i] {
			buf.AppendString(m.Name)
			buf.AppendFloat64(m.Value)
		}
	}

	payload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress cache snapshot: %w", err)
	}

	out := make([]byte, snapshotHeaderSize, snapshotHeaderSize+len(payload))
	copy(out, snapshotMagic[:])
	out[4] = snapshotVersion
	out[5] = byte(cfg.codec)
	binary.LittleEndian.PutUint64(out[6:], hash.Checksum(buf.Bytes()))

	return append(out, payload...), nil
}

// MarshalBinary implements encoding.BinaryMarshaler using DefaultCodec.
func (c *Cache) MarshalBinary() ([]byte, error) {
	return c.Snapshot()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Decoded entries are
// inserted with Put semantics, so keys already in c keep their records.
func (c *Cache) UnmarshalBinary(data []byte) error {
	restored, err := Restore(data)
	if err != nil {
		return err
	}
	c.Merge(restored)

	return nil
}

// Restore decodes a snapshot produced by Snapshot into a new cache.
func Restore(data []byte) (*Cache, error) {
	if len(data) < snapshotHeaderSize || !bytes.Equal(data[:4], snapshotMagic[:]) {
		return nil, fmt.Errorf("%w: bad header", errs.ErrInvalidSnapshot)
	}
	if data[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d", errs.ErrInvalidSnapshot, data[4])
	}

	codec, err := compress.GetCodec(compress.Type(data[5]))
	if err != nil {
		return nil, err
	}
	want := binary.LittleEndian.Uint64(data[6:])

	payload, err := codec.Decompress(data[snapshotHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if got := hash.Checksum(payload); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, got, want)
	}

	d := decoder{data: payload}
	count := d.uvarint()
	c := New()
	for i := uint64(0); i < count && d.err == nil; i++ {
		key := d.string()
		metrics := d.uvarint()
		if metrics > uint64(len(d.data)) {
			d.fail("metric count %d exceeds payload", metrics)
			break
		}
		record := make(score.Record, 0, metrics)
		for j := uint64(0); j < metrics && d.err == nil; j++ {
			name := d.string()
			record = append(record, score.Metric{Name: name, Value: d.float64()})
		}
		if d.err == nil && !c.putLocked(key, record) {
			d.fail("duplicate key %q", key)
		}
	}
	if d.err == nil && len(d.data) != 0 {
		d.fail("%d trailing bytes", len(d.data))
	}
	if d.err != nil {
		return nil, d.err
	}

	return c, nil
}

// decoder reads the snapshot payload and records the first failure.
type decoder struct {
	data []byte
	err  error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", errs.ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data)
	if n <= 0 {
		d.fail("truncated varint")
		return 0
	}
	d.data = d.data[n:]

	return v
}

func (d *decoder) string() string {
	l := d.uvarint()
	if d.err != nil {
		return ""
	}
	if l > uint64(len(d.data)) {
		d.fail("string length %d exceeds payload", l)
		return ""
	}
	s := string(d.data[:l])
	d.data = d.data[l:]

	return s
}

func (d *decoder) float64() float64 {
	if d.err != nil {
		return 0
	}
	if len(d.data) < 8 {
		d.fail("truncated float")
		return 0
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.data))
	d.data = d.data[8:]

	return v
}
