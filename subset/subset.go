// Package subset provides the fixed-length bit-vector used to identify a
// candidate model over an ordered predictor pool.
//
// Bit i set means predictor i of the pool is included in the model. Two
// subsets are equal iff their bit-vectors are equal, and the canonical key
// returned by Key is the "0"/"1" string of the bits in pool order, which makes
// it usable as an exact-match cache key.
//
// # Basic Usage
//
//	full := subset.All(4)               // "1111"
//	forced, _ := subset.FromIndices(4, 2)
//	model := full.Clone()
//	model.Toggle(0)                     // "0111"
//	_ = model.CombineForced(forced)     // forced predictors stay included
//	key := model.Key()
package subset

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/sbfs/errs"
)

// Subset is an inclusion pattern over a predictor pool of fixed length.
//
// The zero value is an empty subset over an empty pool. Subset is not safe for
// concurrent mutation.
type Subset struct {
	bits *bitset.BitSet
	n    int
}

// New returns a subset of length n with no predictors included.
func New(n int) Subset {
	if n < 0 {
		n = 0
	}

	return Subset{bits: bitset.New(uint(n)), n: n}
}

// All returns a subset of length n with every predictor included.
func All(n int) Subset {
	s := New(n)
	for i := range n {
		s.bits.Set(uint(i))
	}

	return s
}

// FromIncluded builds a subset from an explicit inclusion list.
func FromIncluded(included []bool) Subset {
	s := New(len(included))
	for i, in := range included {
		if in {
			s.bits.Set(uint(i))
		}
	}

	return s
}

// FromIndices returns a subset of length n with the given predictors included.
func FromIndices(n int, indices ...int) (Subset, error) {
	s := New(n)
	for _, i := range indices {
		if i < 0 || i >= n {
			return Subset{}, fmt.Errorf("%w: %d (pool size %d)", errs.ErrIndexOutOfRange, i, n)
		}
		s.bits.Set(uint(i))
	}

	return s, nil
}

// Parse decodes a canonical key produced by Key.
func Parse(key string) (Subset, error) {
	s := New(len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '1':
			s.bits.Set(uint(i))
		case '0':
		default:
			return Subset{}, fmt.Errorf("invalid subset key %q: unexpected %q at %d", key, key[i], i)
		}
	}

	return s, nil
}

// Len returns the pool size the subset is defined over.
func (s Subset) Len() int {
	return s.n
}

// Count returns the number of included predictors.
func (s Subset) Count() int {
	if s.bits == nil {
		return 0
	}

	return int(s.bits.Count())
}

// Has reports whether predictor i is included.
func (s Subset) Has(i int) bool {
	if s.bits == nil || i < 0 || i >= s.n {
		return false
	}

	return s.bits.Test(uint(i))
}

// Toggle flips bit i. It panics if i is outside the pool.
func (s Subset) Toggle(i int) {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("subset: toggle index %d out of range [0,%d)", i, s.n))
	}
	s.bits.Flip(uint(i))
}

// Clone returns an independent copy of s.
func (s Subset) Clone() Subset {
	if s.bits == nil {
		return New(s.n)
	}

	return Subset{bits: s.bits.Clone(), n: s.n}
}

// With returns a copy of s with bit i flipped.
func (s Subset) With(i int) Subset {
	c := s.Clone()
	c.Toggle(i)

	return c
}

// CombineForced ORs the forced mask into s in place.
func (s Subset) CombineForced(mask Subset) error {
	if mask.n != s.n {
		return fmt.Errorf("%w: forced mask has %d bits, subset has %d", errs.ErrLengthMismatch, mask.n, s.n)
	}
	if mask.bits != nil {
		s.bits.InPlaceUnion(mask.bits)
	}

	return nil
}

// ContainsAll reports whether every predictor in mask is included in s,
// i.e. s AND mask == mask.
func (s Subset) ContainsAll(mask Subset) bool {
	if mask.n != s.n {
		return false
	}
	if mask.bits == nil || mask.bits.None() {
		return true
	}

	return s.bits.IsSuperSet(mask.bits)
}

// IsFull reports whether every predictor of the pool is included.
func (s Subset) IsFull() bool {
	return s.Count() == s.n
}

// Equal reports whether s and other have identical bit-vectors.
func (s Subset) Equal(other Subset) bool {
	if s.n != other.n {
		return false
	}
	for i := range s.n {
		if s.Has(i) != other.Has(i) {
			return false
		}
	}

	return true
}

// Key returns the canonical "0"/"1" encoding of s in pool order.
func (s Subset) Key() string {
	var sb strings.Builder
	sb.Grow(s.n)
	for i := range s.n {
		if s.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// String implements fmt.Stringer.
func (s Subset) String() string {
	return s.Key()
}

// Included returns the inclusion list of s.
func (s Subset) Included() []bool {
	out := make([]bool, s.n)
	for i := range s.n {
		out[i] = s.Has(i)
	}

	return out
}

// Indices returns the included predictor positions in ascending order.
func (s Subset) Indices() []int {
	out := make([]int, 0, s.Count())
	for i := range s.n {
		if s.Has(i) {
			out = append(out, i)
		}
	}

	return out
}
