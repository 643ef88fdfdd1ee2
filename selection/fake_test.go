package selection

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/regression"
	"github.com/arloliu/sbfs/score"
)

// fakeRegressor scores subsets from a lookup table. Predictor columns hold a
// constant code (1 for the first predictor, 2 for the second, ...) so the
// subset can be recovered from the design matrix.
type fakeRegressor struct {
	names   []string
	scores  map[string]float64 // sorted predictor names joined by "," → score
	failOn  string
	failErr error
	panicOn string
	coef    float64
	scorers []string

	calls map[string]int
	rows  map[string]int
}

var _ regression.Regressor = (*fakeRegressor)(nil)

func newFake(names []string, scores map[string]float64) *fakeRegressor {
	return &fakeRegressor{
		names:   names,
		scores:  scores,
		coef:    1,
		scorers: []string{"R2"},
		calls:   map[string]int{},
		rows:    map[string]int{},
	}
}

func (f *fakeRegressor) Name() string            { return "FAKE" }
func (f *fakeRegressor) Scorers() []string       { return f.scorers }
func (f *fakeRegressor) CrossValidation() string { return "NONE" }

func (f *fakeRegressor) included(x dataset.Matrix) []string {
	out := []string{}
	if x.Rows() == 0 {
		return out
	}
	for _, v := range x.Row(0) {
		out = append(out, f.names[int(v)-1])
	}

	return out
}

func (f *fakeRegressor) Fit(x dataset.Matrix, y []float64, _ bool) (*regression.FitResult, error) {
	inc := f.included(x)
	key := strings.Join(inc, ",")
	f.calls[key]++
	f.rows[key] = x.Rows()

	for _, name := range inc {
		if name == f.failOn {
			if f.failErr != nil {
				return nil, f.failErr
			}

			return nil, errors.New("backend rejects " + name)
		}
		if name == f.panicOn {
			panic("backend exploded on " + name)
		}
	}

	v, ok := f.scores[key]
	if !ok {
		v = math.NaN()
	}
	rec := score.Record{{Name: f.scorers[0], Value: v}}

	return &regression.FitResult{Scores: rec, CVScores: rec}, nil
}

func (f *fakeRegressor) Predict(x dataset.Matrix) ([]float64, error) {
	return make([]float64, x.Rows()), nil
}

func (f *fakeRegressor) Coefficients() []float64 { return []float64{f.coef} }
func (f *fakeRegressor) Intercept() float64      { return 0 }
func (f *fakeRegressor) Residuals() []float64    { return nil }

// codedFrame builds a frame whose predictor j is the constant j+1.
func codedFrame(t *testing.T, rows int, names ...string) *dataset.Frame {
	t.Helper()

	cols := make([][]float64, len(names))
	for j := range names {
		cols[j] = make([]float64, rows)
		for i := range rows {
			cols[j][i] = float64(j + 1)
		}
	}
	target := make([]float64, rows)
	for i := range target {
		target[i] = float64(i)
	}

	frame, err := dataset.NewFrame(names, cols, "Y", target)
	require.NoError(t, err)

	return frame
}
