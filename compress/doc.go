// Package compress provides the codecs used to shrink evaluation cache
// snapshots.
//
// Four codecs are available, identified by a Type byte that is persisted in
// the snapshot header:
//
//   - None: no compression
//   - Zstd: best ratio, for snapshots kept on disk
//   - S2:   fast, moderate ratio
//   - LZ4:  fastest decode
//
// Score snapshots are dominated by repeated metric names and "0"/"1" subset
// keys, so every real codec compresses them well.
//
// # Usage
//
//	codec, err := compress.GetCodec(compress.Zstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
package compress
