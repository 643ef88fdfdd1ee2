package score

import (
	"math"

	"github.com/arloliu/sbfs/errs"
)

// Set is an ordered list of scorers resolved once from names.
type Set []Scorer

// NewSet resolves scorer names in order. At least one name is required.
func NewSet(names ...string) (Set, error) {
	if len(names) == 0 {
		return nil, errs.ErrNoScorers
	}

	set := make(Set, 0, len(names))
	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		set = append(set, s)
	}

	return set, nil
}

// Names returns the scorer names in order; they are the keys of every Record
// produced by the set.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, sc := range s {
		names[i] = sc.Name
	}

	return names
}

// NaN returns an all-NaN record keyed by the set's names.
func (s Set) NaN() Record {
	return NaNRecord(s.Names())
}

// Score evaluates every scorer of the set.
//
// When nFeatures > len(predicted) - 2 the fit has too few degrees of freedom
// and an all-NaN record is returned.
func (s Set) Score(observed, predicted []float64, nFeatures int) Record {
	if nFeatures > len(predicted)-2 {
		return s.NaN()
	}

	r := make(Record, len(s))
	for i, sc := range s {
		r[i] = Metric{Name: sc.Name, Value: sc.Fn(observed, predicted, nFeatures)}
	}

	return r
}

// Comparator reports whether newScores is preferred to oldScores.
//
// Implementations must be total and side-effect free, and must never prefer a
// record because it contains NaN.
type Comparator func(newScores, oldScores Record) bool

// NewComparator returns the lexicographic comparator for the set.
//
// Metrics are visited in set order. For each metric, a NaN new value loses, a
// NaN old value loses to any non-NaN new value, a strictly better value wins,
// a strictly worse value loses and an equal value defers to the next metric.
// Records that tie on every metric are not preferred.
func (s Set) NewComparator() Comparator {
	scorers := append(Set(nil), s...)

	return func(newScores, oldScores Record) bool {
		for _, sc := range scorers {
			nv, _ := newScores.Get(sc.Name)
			ov, _ := oldScores.Get(sc.Name)

			switch {
			case math.IsNaN(nv):
				return false
			case math.IsNaN(ov):
				return true
			case nv == ov:
				continue
			case sc.Direction == LowerIsBetter:
				return nv < ov
			default:
				return nv > ov
			}
		}

		return false
	}
}
