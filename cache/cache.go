// Package cache implements the memoized evaluation cache of a selection
// session.
//
// The cache maps a subset's canonical key to the score record computed for it.
// It is insert-only: entries are never replaced or evicted, so a subset is
// evaluated at most once per session no matter how many searches revisit it.
// Entries keep their insertion order, which is also the order of snapshots.
//
// A cache can be persisted with Snapshot / MarshalBinary and restored with
// Restore / UnmarshalBinary. Snapshots are compressed with one of the codecs
// of package compress and verified with an xxHash64 checksum.
package cache

import (
	"iter"
	"sync"

	"github.com/arloliu/sbfs/score"
)

// Cache is an insert-only, insertion-ordered map from subset key to score
// record. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]score.Record
	keys    []string
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]score.Record)}
}

// Has reports whether key has been evaluated.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[key]

	return ok
}

// Get returns a copy of the record stored under key.
func (c *Cache) Get(key string) (score.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	return r.Clone(), true
}

// Put stores record under key. It returns false and leaves the cache unchanged
// when key is already present.
func (c *Cache) Put(key string, record score.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.putLocked(key, record)
}

func (c *Cache) putLocked(key string, record score.Record) bool {
	if _, ok := c.entries[key]; ok {
		return false
	}
	c.entries[key] = record.Clone()
	c.keys = append(c.keys, key)

	return true
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.keys)
}

// Keys returns the cached keys in insertion order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.keys...)
}

// All iterates over a point-in-time view of the cache in insertion order.
func (c *Cache) All() iter.Seq2[string, score.Record] {
	c.mu.RLock()
	keys := append([]string(nil), c.keys...)
	records := make([]score.Record, len(keys))
	for i, k := range keys {
		records[i] = c.entries[k].Clone()
	}
	c.mu.RUnlock()

	return func(yield func(string, score.Record) bool) {
		for i, k := range keys {
			if !yield(k, records[i]) {
				return
			}
		}
	}
}

// Map returns a copy of the cache contents.
func (c *Cache) Map() map[string]score.Record {
	out := make(map[string]score.Record, c.Len())
	for k, r := range c.All() {
		out[k] = r
	}

	return out
}

// Clone returns an independent copy of c.
func (c *Cache) Clone() *Cache {
	out := New()
	for k, r := range c.All() {
		out.putLocked(k, r)
	}

	return out
}

// Merge inserts every entry of other that c does not hold yet and returns the
// number of entries added.
func (c *Cache) Merge(other *Cache) int {
	if other == nil || other == c {
		return 0
	}

	added := 0
	for k, r := range other.All() {
		if c.Put(k, r) {
			added++
		}
	}

	return added
}
