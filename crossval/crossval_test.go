package crossval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
)

func testData(t *testing.T, n int) (dataset.Matrix, []float64) {
	t.Helper()

	rows := make([][]float64, n)
	y := make([]float64, n)
	for i := range n {
		rows[i] = []float64{float64(i), float64(i * 10)}
		y[i] = float64(i)
	}
	x, err := dataset.FromRows(rows)
	require.NoError(t, err)

	return x, y
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
		err  error
	}{
		{"KFOLD_5", "KFOLD_5", nil},
		{"kfold_10", "KFOLD_10", nil},
		{"", "KFOLD_5", nil},
		{"LOO", "LOO", nil},
		{"KFOLD_1", "", errs.ErrInvalidFoldCount},
		{"KFOLD_x", "", errs.ErrInvalidFoldCount},
		{"BOOTSTRAP", "", errs.ErrUnknownValidator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New(tt.name)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v.Name())
		})
	}
}

func TestKFold_CoversEveryRowOnce(t *testing.T) {
	x, y := testData(t, 11)

	var tested []float64
	folds := 0
	for fold := range (KFold{K: 3}).Folds(x, y) {
		folds++
		require.Equal(t, len(fold.TrainY)+len(fold.TestY), 11)
		require.Equal(t, len(fold.TrainY), fold.TrainX.Rows())
		require.Equal(t, len(fold.TestY), fold.TestX.Rows())
		require.Equal(t, 2, fold.TestX.Cols())
		tested = append(tested, fold.TestY...)
	}

	require.Equal(t, 3, folds)
	require.Equal(t, y, tested)
}

func TestKFold_FoldSizes(t *testing.T) {
	x, y := testData(t, 11)

	var sizes []int
	for fold := range (KFold{K: 3}).Folds(x, y) {
		sizes = append(sizes, len(fold.TestY))
	}
	require.Equal(t, []int{4, 4, 3}, sizes)
}

func TestKFold_Restartable(t *testing.T) {
	x, y := testData(t, 6)
	seq := (KFold{K: 2}).Folds(x, y)

	collect := func() [][]float64 {
		var out [][]float64
		for fold := range seq {
			out = append(out, fold.TestY)
		}

		return out
	}
	require.Equal(t, collect(), collect())
}

func TestKFold_TooFewRows(t *testing.T) {
	x, y := testData(t, 3)

	count := 0
	for range (KFold{K: 5}).Folds(x, y) {
		count++
	}
	require.Zero(t, count)
	require.Equal(t, 5, KFold{K: 5}.MinRows())
}

func TestLeaveOneOut(t *testing.T) {
	x, y := testData(t, 4)

	var tested []float64
	for fold := range (LeaveOneOut{}).Folds(x, y) {
		require.Len(t, fold.TestY, 1)
		require.Len(t, fold.TrainY, 3)
		require.NotContains(t, fold.TrainY, fold.TestY[0])
		tested = append(tested, fold.TestY...)
	}
	require.Equal(t, y, tested)
}

func TestFolds_EarlyBreak(t *testing.T) {
	x, y := testData(t, 10)

	count := 0
	for range (LeaveOneOut{}).Folds(x, y) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
