package selection

import (
	"github.com/arloliu/sbfs/score"
	"github.com/arloliu/sbfs/subset"
)

// Event reports one freshly evaluated subset.
type Event struct {
	// Model is the inclusion list of the subset in pool order.
	Model []bool
	// Score is the cross-validated record, all-NaN on failure.
	Score score.Record
	// Method is "PIPE/<preprocessor>/<regressor>/<crossValidation>".
	Method string
	// NegativeCoefficients is set when the fit has any negative coefficient.
	NegativeCoefficients bool
	// Err is the fit error behind an all-NaN record, if any.
	Err error

	subset subset.Subset
}

// Subset returns the evaluated subset.
func (e Event) Subset() subset.Subset {
	return e.subset.Clone()
}

// Listener receives an Event for every fresh evaluation. It must not call back
// into the Selector.
type Listener interface {
	OnEvaluated(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvaluated implements Listener.
func (f ListenerFunc) OnEvaluated(e Event) { f(e) }

// Move names how a Step changed the subset.
type Move string

const (
	MoveInitial Move = "initial"
	MoveRemove  Move = "remove"
	MoveAdd     Move = "add"
)

// Step is one accepted subset of the search. Every step after the first was
// preferred by the comparator over the step before it.
type Step struct {
	Move Move
	// Predictor is the toggled pool position, -1 for the initial subset.
	Predictor int
	Subset    subset.Subset
	Score     score.Record
}

// Stats counts the work done by one Run.
type Stats struct {
	// Evaluations is the number of fresh evaluations, including failures.
	Evaluations int
	// CacheHits is the number of subsets answered from the cache.
	CacheHits int
	// Failures is the number of fits that returned an error or panicked.
	Failures int
	// Degenerate is the number of subsets scored NaN for too few usable rows.
	Degenerate int
	// Iterations is the number of outer subtract/add iterations.
	Iterations int
}

// Result is the outcome of a Run.
type Result struct {
	Subset   subset.Subset
	Included []bool
	Names    []string
	Score    score.Record
	// Method is the method label of the run, also set when every subset was
	// answered from the cache.
	Method string
	// Evaluated holds every cached subset key and record, including entries
	// inherited from earlier runs sharing the cache.
	Evaluated map[string]score.Record
	// Log lists the fresh evaluations of this run in order.
	Log []Event
	// Path lists the accepted subsets in order, starting with the initial one.
	Path  []Step
	Stats Stats
}
