// Package crossval provides the cross-validators used by regression backends
// to partition a design matrix into train/test folds.
//
// A validator produces a finite sequence of folds. The sequence is restartable:
// ranging over Folds again yields the same partitions in the same order.
// Validators are resolved by name:
//
//   - "KFOLD_<k>": k contiguous folds, e.g. KFOLD_5 (the default) or KFOLD_10
//   - "LOO":       leave-one-out
package crossval

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
)

// DefaultName is the validator used when none is configured.
const DefaultName = "KFOLD_5"

// Fold is one train/test partition.
type Fold struct {
	TrainX dataset.Matrix
	TrainY []float64
	TestX  dataset.Matrix
	TestY  []float64
}

// Validator partitions observations into folds.
type Validator interface {
	// Name returns the registry name of the validator.
	Name() string
	// Folds yields the folds of x and y. Concatenating the test rows of all
	// folds gives every row exactly once, in ascending order.
	Folds(x dataset.Matrix, y []float64) iter.Seq[Fold]
	// MinRows is the smallest number of observations the validator can split.
	MinRows() int
}

// New resolves a validator by name.
func New(name string) (Validator, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case upper == "":
		return KFold{K: 5}, nil
	case upper == "LOO":
		return LeaveOneOut{}, nil
	case strings.HasPrefix(upper, "KFOLD_"):
		k, err := strconv.Atoi(strings.TrimPrefix(upper, "KFOLD_"))
		if err != nil || k < 2 {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidFoldCount, name)
		}

		return KFold{K: k}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownValidator, name)
	}
}

// Names lists example validator names for help output.
func Names() []string {
	return []string{"KFOLD_5", "KFOLD_10", "LOO"}
}

// KFold splits observations into K contiguous, unshuffled folds. The first
// n mod K folds hold one extra row.
type KFold struct {
	K int
}

var _ Validator = KFold{}

// Name implements Validator.
func (k KFold) Name() string {
	return "KFOLD_" + strconv.Itoa(k.K)
}

// MinRows implements Validator.
func (k KFold) MinRows() int {
	return k.K
}

// Folds implements Validator.
func (k KFold) Folds(x dataset.Matrix, y []float64) iter.Seq[Fold] {
	return func(yield func(Fold) bool) {
		n := len(y)
		if k.K < 2 || n < k.K {
			return
		}

		start := 0
		for f := range k.K {
			size := n / k.K
			if f < n%k.K {
				size++
			}
			if !yield(split(x, y, start, start+size)) {
				return
			}
			start += size
		}
	}
}

// LeaveOneOut holds out each observation in turn.
type LeaveOneOut struct{}

var _ Validator = LeaveOneOut{}

// Name implements Validator.
func (LeaveOneOut) Name() string { return "LOO" }

// MinRows implements Validator.
func (LeaveOneOut) MinRows() int { return 2 }

// Folds implements Validator.
func (LeaveOneOut) Folds(x dataset.Matrix, y []float64) iter.Seq[Fold] {
	return func(yield func(Fold) bool) {
		if len(y) < 2 {
			return
		}
		for i := range y {
			if !yield(split(x, y, i, i+1)) {
				return
			}
		}
	}
}

// split holds out rows [lo, hi) as the test set.
func split(x dataset.Matrix, y []float64, lo, hi int) Fold {
	n := len(y)
	train := make([]int, 0, n-(hi-lo))
	for i := range n {
		if i < lo || i >= hi {
			train = append(train, i)
		}
	}
	test := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		test = append(test, i)
	}

	trainY := make([]float64, len(train))
	for r, i := range train {
		trainY[r] = y[i]
	}

	return Fold{
		TrainX: x.SelectRows(train),
		TrainY: trainY,
		TestX:  x.SelectRows(test),
		TestY:  slices.Clone(y[lo:hi]),
	}
}
