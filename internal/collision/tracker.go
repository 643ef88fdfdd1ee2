package collision

import (
	"fmt"

	"github.com/arloliu/sbfs/errs"
)

// Tracker records predictor names in pool order and detects duplicates and
// xxHash64 id collisions.
type Tracker struct {
	byID         map[uint64]string
	names        []string
	hasCollision bool
}

// NewTracker creates an empty tracker sized for n predictors.
func NewTracker(n int) *Tracker {
	return &Tracker{
		byID:  make(map[uint64]string, n),
		names: make([]string, 0, n),
	}
}

// Track registers a predictor name with its id.
//
// An empty name or a name already tracked is an error. Two different names
// sharing an id are accepted; the collision flag is set so callers stop
// treating ids as unique.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrInvalidPredictor
	}

	if existing, ok := t.byID[id]; ok {
		if existing == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicatePredictor, name)
		}
		t.hasCollision = true
	}
	for _, n := range t.names {
		if n == name {
			return fmt.Errorf("%w: %q", errs.ErrDuplicatePredictor, name)
		}
	}

	t.byID[id] = name
	t.names = append(t.names, name)

	return nil
}

// HasCollision reports whether two tracked names share an id.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in the order they were added.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}
