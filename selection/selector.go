package selection

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/sbfs/cache"
	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/internal/options"
	"github.com/arloliu/sbfs/regression"
	"github.com/arloliu/sbfs/score"
	"github.com/arloliu/sbfs/subset"
)

// Selector runs the floating search over the predictor pool of a frame.
//
// A Selector is not safe for concurrent use. Run may be called repeatedly;
// later runs are answered from the cache.
type Selector struct {
	frame       *dataset.Frame
	reg         regression.Regressor
	forced      subset.Subset
	initial     subset.Subset
	cache       *cache.Cache
	cmp         score.Comparator
	listener    Listener
	logger      *zap.Logger
	method      string
	nanTolerant bool
	nanRecord   score.Record
}

// New validates the configuration and creates a Selector.
//
// Parameters:
//   - frame: predictor pool, predictor columns and target
//   - reg: regressor used to score subsets by cross-validation
//   - opts: forced mask, initial subset, cache, comparator, listener, logger
//
// Returns:
//   - *Selector: ready to Run
//   - error: ErrMissingFrame, ErrMissingRegressor, ErrLengthMismatch or a
//     scorer lookup error when no comparator is supplied
func New(frame *dataset.Frame, reg regression.Regressor, opts ...Option) (*Selector, error) {
	if frame == nil {
		return nil, errs.ErrMissingFrame
	}
	if reg == nil {
		return nil, errs.ErrMissingRegressor
	}
	if frame.Len() == 0 {
		return nil, errs.ErrEmptyPool
	}

	cfg := &config{
		logger:       zap.NewNop(),
		preprocessor: DefaultPreprocessor,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	p := frame.Len()
	forced := subset.New(p)
	if cfg.forced != nil {
		if cfg.forced.Len() != p {
			return nil, fmt.Errorf("%w: forced mask has %d bits, pool has %d", errs.ErrLengthMismatch, cfg.forced.Len(), p)
		}
		forced = *cfg.forced
	}

	initial := subset.All(p)
	if cfg.initial != nil {
		if cfg.initial.Len() != p {
			return nil, fmt.Errorf("%w: initial subset has %d bits, pool has %d", errs.ErrLengthMismatch, cfg.initial.Len(), p)
		}
		initial = *cfg.initial
	}
	if err := initial.CombineForced(forced); err != nil {
		return nil, err
	}

	if cfg.comparator == nil {
		set, err := score.NewSet(reg.Scorers()...)
		if err != nil {
			return nil, fmt.Errorf("build comparator: %w", err)
		}
		cfg.comparator = set.NewComparator()
	}
	if cfg.cache == nil {
		cfg.cache = cache.New()
	}

	nanTolerant := regression.NaNTolerant(reg.Name())
	if cfg.nanTolerant != nil {
		nanTolerant = *cfg.nanTolerant
	}

	return &Selector{
		frame:       frame,
		reg:         reg,
		forced:      forced,
		initial:     initial,
		cache:       cfg.cache,
		cmp:         cfg.comparator,
		listener:    cfg.listener,
		logger:      cfg.logger.With(zap.String("regressor", reg.Name())),
		method:      fmt.Sprintf("PIPE/%s/%s/%s", cfg.preprocessor, reg.Name(), reg.CrossValidation()),
		nanTolerant: nanTolerant,
		nanRecord:   score.NaNRecord(reg.Scorers()),
	}, nil
}

// Method returns the method label attached to events.
func (s *Selector) Method() string { return s.method }

// Cache returns the evaluation cache used by the selector.
func (s *Selector) Cache() *cache.Cache { return s.cache }

// Run performs the search and returns the converged subset.
func (s *Selector) Run() *Result {
	r := &run{Selector: s}

	current := s.initial.Clone()
	currentScore := r.evaluate(current)
	r.accept(MoveInitial, -1, current, currentScore)
	previous := current.Clone()

	for {
		r.stats.Iterations++

		current, currentScore = r.subtract(current, currentScore)
		current, currentScore = r.add(current, currentScore)

		s.logger.Debug("outer iteration done",
			zap.Int("iteration", r.stats.Iterations),
			zap.Stringer("subset", current),
			zap.Stringer("score", currentScore),
		)

		if current.Equal(previous) {
			break
		}
		previous = current.Clone()
	}

	names := s.frame.SubsetNames(current)
	s.logger.Info("selection converged",
		zap.Strings("predictors", names),
		zap.Stringer("score", currentScore),
		zap.Int("iterations", r.stats.Iterations),
		zap.Int("evaluations", r.stats.Evaluations),
		zap.Int("cache_hits", r.stats.CacheHits),
		zap.Int("failures", r.stats.Failures),
	)

	return &Result{
		Subset:    current,
		Included:  current.Included(),
		Names:     names,
		Score:     currentScore,
		Method:    s.method,
		Evaluated: s.cache.Map(),
		Log:       r.log,
		Path:      r.path,
		Stats:     r.stats,
	}
}

// run holds the per-Run bookkeeping.
type run struct {
	*Selector
	log   []Event
	path  []Step
	stats Stats
}

func (r *run) accept(move Move, predictor int, s subset.Subset, rec score.Record) {
	r.path = append(r.path, Step{
		Move:      move,
		Predictor: predictor,
		Subset:    s.Clone(),
		Score:     rec.Clone(),
	})
}

// subtract sweeps once over the included, non-forced predictors in pool order.
func (r *run) subtract(current subset.Subset, currentScore score.Record) (subset.Subset, score.Record) {
	for i := range current.Len() {
		if !current.Has(i) || r.forced.Has(i) {
			continue
		}

		candidate := current.With(i)
		candidateScore := r.evaluate(candidate)
		if r.cmp(candidateScore, currentScore) {
			r.logger.Debug("removed predictor",
				zap.String("predictor", r.frame.Name(i)),
				zap.Stringer("score", candidateScore),
			)
			current, currentScore = candidate, candidateScore
			r.accept(MoveRemove, i, current, currentScore)
		}
	}

	return current, currentScore
}

// add sweeps over the excluded predictors until a sweep accepts nothing. Each
// accepting sweep includes at least one more predictor, so at most P+1 sweeps
// run.
func (r *run) add(current subset.Subset, currentScore score.Record) (subset.Subset, score.Record) {
	if current.IsFull() {
		r.evaluate(current)
		return current, currentScore
	}

	for range current.Len() + 1 {
		improved := false
		for i := range current.Len() {
			if current.Has(i) {
				continue
			}

			candidate := current.With(i)
			candidateScore := r.evaluate(candidate)
			if r.cmp(candidateScore, currentScore) {
				r.logger.Debug("added predictor",
					zap.String("predictor", r.frame.Name(i)),
					zap.Stringer("score", candidateScore),
				)
				current, currentScore = candidate, candidateScore
				r.accept(MoveAdd, i, current, currentScore)
				improved = true
			}
		}

		if !improved || current.IsFull() {
			break
		}
	}

	return current, currentScore
}

// evaluate returns the cached record of s or computes, caches, logs and
// reports a fresh one.
func (r *run) evaluate(s subset.Subset) score.Record {
	key := s.Key()
	if rec, ok := r.cache.Get(key); ok {
		r.stats.CacheHits++
		return rec
	}

	ev := Event{
		Model:  s.Included(),
		Method: r.method,
		subset: s.Clone(),
	}
	ev.Score, ev.NegativeCoefficients, ev.Err = r.fit(s)

	r.stats.Evaluations++
	switch {
	case ev.Err == nil:
	case isDegenerate(ev.Err):
		r.stats.Degenerate++
	default:
		r.stats.Failures++
		r.logger.Warn("fit failed, scoring subset as NaN",
			zap.String("subset", key),
			zap.Error(ev.Err),
		)
	}

	r.cache.Put(key, ev.Score)
	r.log = append(r.log, ev)
	r.logger.Debug("evaluated subset",
		zap.String("subset", key),
		zap.Strings("predictors", r.frame.SubsetNames(s)),
		zap.Stringer("score", ev.Score),
	)

	if r.listener != nil {
		out := ev
		out.Model = slices.Clone(ev.Model)
		out.Score = ev.Score.Clone()
		r.listener.OnEvaluated(out)
	}

	return ev.Score.Clone()
}

// fit scores s by cross-validation. Any failure yields the all-NaN record.
func (r *run) fit(s subset.Subset) (rec score.Record, negative bool, err error) {
	x, y, err := r.frame.Design(s, r.nanTolerant)
	if err != nil {
		return r.nanRecord.Clone(), false, err
	}

	rows, features := x.Dims()
	if rows == 0 || features > rows-2 {
		return r.nanRecord.Clone(), false, fmt.Errorf("%w: %d features, %d usable rows", errs.ErrDegenerateSubset, features, rows)
	}

	defer func() {
		if p := recover(); p != nil {
			rec, negative, err = r.nanRecord.Clone(), false, fmt.Errorf("regressor %s panicked: %v", r.reg.Name(), p)
		}
	}()

	res, err := r.reg.Fit(x, y, true)
	if err != nil {
		return r.nanRecord.Clone(), false, err
	}
	if len(res.CVScores) == 0 {
		return r.nanRecord.Clone(), false, fmt.Errorf("regressor %s returned no cross-validated scores", r.reg.Name())
	}

	return res.CVScores.Clone(), slices.ContainsFunc(r.reg.Coefficients(), func(c float64) bool { return c < 0 }), nil
}

// isDegenerate reports errors caused by too few usable rows rather than by
// the backend.
func isDegenerate(err error) bool {
	return errors.Is(err, errs.ErrDegenerateSubset) || errors.Is(err, errs.ErrTooFewObservations)
}
