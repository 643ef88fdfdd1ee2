package dataset

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/internal/collision"
	"github.com/arloliu/sbfs/internal/hash"
	"github.com/arloliu/sbfs/subset"
)

// Frame is the predictor pool of one search together with its data.
type Frame struct {
	names       []string
	ids         []uint64
	index       map[string]int
	columns     [][]float64
	target      []float64
	targetName  string
	observed    []*roaring.Bitmap
	rows        int
	idCollision bool
}

// NewFrame validates and wraps predictor columns and the target series.
//
// names and columns are in pool order. Every column must have the same length
// as target, predictor names must be unique and non-empty, and the target must
// not contain NaN. Predictor values may be NaN. Inputs are copied.
func NewFrame(names []string, columns [][]float64, targetName string, target []float64) (*Frame, error) {
	if len(names) == 0 {
		return nil, errs.ErrEmptyPool
	}
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%w: %d names for %d columns", errs.ErrRaggedColumns, len(names), len(columns))
	}

	tracker := collision.NewTracker(len(names))
	ids := make([]uint64, len(names))
	for i, name := range names {
		ids[i] = hash.ID(name)
		if err := tracker.Track(name, ids[i]); err != nil {
			return nil, err
		}
	}

	rows := len(target)
	for i, v := range target {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: row %d", errs.ErrTargetNaN, i)
		}
	}

	f := &Frame{
		names:       slices.Clone(names),
		ids:         ids,
		index:       make(map[string]int, len(names)),
		columns:     make([][]float64, len(columns)),
		target:      slices.Clone(target),
		targetName:  targetName,
		observed:    make([]*roaring.Bitmap, len(columns)),
		rows:        rows,
		idCollision: tracker.HasCollision(),
	}

	for j, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, target has %d", errs.ErrRaggedColumns, names[j], len(col), rows)
		}
		f.index[names[j]] = j
		f.columns[j] = slices.Clone(col)

		bm := roaring.New()
		for i, v := range col {
			if !math.IsNaN(v) {
				bm.Add(uint32(i))
			}
		}
		f.observed[j] = bm
	}

	return f, nil
}

// Len returns the pool size P.
func (f *Frame) Len() int { return len(f.names) }

// Rows returns the number of observations.
func (f *Frame) Rows() int { return f.rows }

// Names returns the predictor names in pool order.
func (f *Frame) Names() []string { return slices.Clone(f.names) }

// Name returns the name of predictor i.
func (f *Frame) Name(i int) string { return f.names[i] }

// TargetName returns the name of the target series.
func (f *Frame) TargetName() string { return f.targetName }

// ID returns the xxHash64 id of predictor i.
func (f *Frame) ID(i int) uint64 { return f.ids[i] }

// HasIDCollision reports whether two predictor names share an id.
func (f *Frame) HasIDCollision() bool { return f.idCollision }

// Index returns the pool position of a predictor.
func (f *Frame) Index(name string) (int, bool) {
	i, ok := f.index[name]
	return i, ok
}

// Mask returns the subset including exactly the named predictors.
func (f *Frame) Mask(names ...string) (subset.Subset, error) {
	s := subset.New(f.Len())
	for _, name := range names {
		i, ok := f.index[name]
		if !ok {
			return subset.Subset{}, fmt.Errorf("%w: %q", errs.ErrUnknownPredictor, name)
		}
		if !s.Has(i) {
			s.Toggle(i)
		}
	}

	return s, nil
}

// SubsetNames returns the names of the predictors included in s.
func (f *Frame) SubsetNames(s subset.Subset) []string {
	out := make([]string, 0, s.Count())
	for _, i := range s.Indices() {
		if i < len(f.names) {
			out = append(out, f.names[i])
		}
	}

	return out
}

// Target returns a copy of the target series.
func (f *Frame) Target() []float64 { return slices.Clone(f.target) }

// Observed returns how many rows of predictor i are not NaN.
func (f *Frame) Observed(i int) int {
	return int(f.observed[i].GetCardinality())
}

// UsableRows returns the rows where every predictor of s is observed, in
// ascending order. With keepNaN every row is usable.
func (f *Frame) UsableRows(s subset.Subset, keepNaN bool) ([]int, error) {
	if s.Len() != f.Len() {
		return nil, fmt.Errorf("%w: subset has %d bits, pool has %d", errs.ErrLengthMismatch, s.Len(), f.Len())
	}

	idx := s.Indices()
	if keepNaN || len(idx) == 0 {
		all := make([]int, f.rows)
		for i := range all {
			all[i] = i
		}

		return all, nil
	}

	rows := f.observed[idx[0]].Clone()
	for _, j := range idx[1:] {
		rows.And(f.observed[j])
	}

	out := make([]int, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}

	return out, nil
}

// Design builds the observations × selected-predictors matrix and the matching
// target values for s. Rows with a NaN in any selected predictor are dropped
// unless keepNaN is set.
func (f *Frame) Design(s subset.Subset, keepNaN bool) (Matrix, []float64, error) {
	rows, err := f.UsableRows(s, keepNaN)
	if err != nil {
		return Matrix{}, nil, err
	}

	idx := s.Indices()
	data := make([]float64, 0, len(rows)*len(idx))
	y := make([]float64, len(rows))
	for r, i := range rows {
		for _, j := range idx {
			data = append(data, f.columns[j][i])
		}
		y[r] = f.target[i]
	}

	return Matrix{rows: len(rows), cols: len(idx), data: data}, y, nil
}
