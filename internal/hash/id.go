// Package hash provides the xxHash64 helpers used for predictor identifiers
// and cache snapshot checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a predictor name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Checksum computes the xxHash64 of an encoded payload.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
