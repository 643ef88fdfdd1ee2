package sbfs

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/arloliu/sbfs/compress"
	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/selection"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// flowFrame returns a small positive-target dataset driven by SNOW and RAIN.
func flowFrame(t *testing.T) *dataset.Frame {
	t.Helper()

	n := 30
	names := []string{"SNOW", "RAIN", "TEMP", "NOISE"}
	cols := make([][]float64, len(names))
	for j := range cols {
		cols[j] = make([]float64, n)
	}
	target := make([]float64, n)
	for i := range n {
		x := float64(i)
		cols[0][i] = 10 + 5*math.Sin(x/3)
		cols[1][i] = 4 + 3*math.Cos(x/2)
		cols[2][i] = 12 + 0.3*x
		cols[3][i] = math.Sin(x * 12.9898)
		target[i] = 20 + 2*cols[0][i] + 1.5*cols[1][i] + 0.01*math.Cos(x*7)
	}
	cols[2][4] = math.NaN()

	frame, err := dataset.NewFrame(names, cols, "FLOW", target)
	require.NoError(t, err)

	return frame
}

func TestSession_Select(t *testing.T) {
	frame := flowFrame(t)

	var events int
	s, err := NewSession(frame,
		WithRegressor("MLR"),
		WithScoring("ADJ_R2", "RMSE"),
		WithListener(selection.ListenerFunc(func(selection.Event) { events++ })),
	)
	require.NoError(t, err)

	res, err := s.Select(Search{Forced: []string{"TEMP"}})
	require.NoError(t, err)
	require.Contains(t, res.Names, "SNOW")
	require.Contains(t, res.Names, "RAIN")
	require.Contains(t, res.Names, "TEMP")
	require.Equal(t, res.Stats.Evaluations, events)
	require.Equal(t, s.Cache().Len(), res.Stats.Evaluations)

	again, err := s.Select(Search{Forced: []string{"TEMP"}})
	require.NoError(t, err)
	require.Zero(t, again.Stats.Evaluations)
	require.Equal(t, res.Subset.Key(), again.Subset.Key())
}

func TestSession_InitialSubset(t *testing.T) {
	s, err := NewSession(flowFrame(t))
	require.NoError(t, err)

	res, err := s.Select(Search{Initial: []string{}})
	require.NoError(t, err)
	require.Equal(t, "0000", res.Log[0].Subset().Key())
	require.Contains(t, res.Names, "SNOW")
}

func TestSession_Errors(t *testing.T) {
	frame := flowFrame(t)

	_, err := NewSession(nil)
	require.ErrorIs(t, err, errs.ErrMissingFrame)

	_, err = NewSession(frame, WithRegressor("SVR"))
	require.ErrorIs(t, err, errs.ErrUnknownRegressor)

	_, err = NewSession(frame, WithScoring())
	require.ErrorIs(t, err, errs.ErrNoScorers)

	_, err = NewSession(frame, WithCrossValidation("KFOLD_1"))
	require.ErrorIs(t, err, errs.ErrInvalidFoldCount)

	s, err := NewSession(frame)
	require.NoError(t, err)

	_, err = s.Select(Search{Forced: []string{"WIND"}})
	require.ErrorIs(t, err, errs.ErrUnknownPredictor)

	_, err = s.Compare(context.Background(), Search{}, "MLR", "SVR")
	require.ErrorIs(t, err, errs.ErrUnknownRegressor)
}

func TestSession_Compare(t *testing.T) {
	s, err := NewSession(flowFrame(t), WithScoring("R2"))
	require.NoError(t, err)

	_, err = s.Select(Search{})
	require.NoError(t, err)
	before := s.Cache().Len()

	results, err := s.Compare(context.Background(), Search{Forced: []string{"SNOW"}}, "MLR", "GAMMA_GLM", "ZSCORE")
	require.NoError(t, err)
	require.Len(t, results, 3)

	for name, res := range results {
		require.Contains(t, res.Names, "SNOW", name)
		require.NotEmpty(t, res.Log, name)
		require.Equal(t, "PIPE/NONE/"+name+"/KFOLD_5", res.Method)
		require.Equal(t, res.Method, res.Log[0].Method)
	}
	require.Equal(t, before+results["MLR"].Stats.Evaluations, s.Cache().Len(),
		"only the session regressor's evaluations are merged back")
	require.Less(t, results["MLR"].Stats.Evaluations, len(results["MLR"].Evaluated),
		"the session regressor starts from a clone of the warm cache")
	require.Equal(t, results["ZSCORE"].Stats.Evaluations, len(results["ZSCORE"].Evaluated))
}

func TestSession_CompareKeepsSessionEvaluations(t *testing.T) {
	s, err := NewSession(flowFrame(t))
	require.NoError(t, err)

	results, err := s.Compare(context.Background(), Search{}, "MLR", "GAMMA_GLM")
	require.NoError(t, err)
	require.Positive(t, s.Cache().Len())
	require.Equal(t, results["MLR"].Stats.Evaluations, s.Cache().Len())

	for key := range results["GAMMA_GLM"].Evaluated {
		if _, ok := results["MLR"].Evaluated[key]; !ok {
			require.False(t, s.Cache().Has(key), "GAMMA_GLM record %s leaked into the session cache", key)
		}
	}

	res, err := s.Select(Search{})
	require.NoError(t, err)
	require.Zero(t, res.Stats.Evaluations)
	require.Equal(t, results["MLR"].Subset.Key(), res.Subset.Key())
}

func TestSession_CompareCanceled(t *testing.T) {
	s, err := NewSession(flowFrame(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Compare(ctx, Search{}, "MLR", "ZSCORE")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSession_CachePersistence(t *testing.T) {
	frame := flowFrame(t)
	path := filepath.Join(t.TempDir(), "cache.bin")

	s, err := NewSession(frame)
	require.NoError(t, err)
	first, err := s.Select(Search{})
	require.NoError(t, err)
	require.NoError(t, s.SaveCache(path, compress.S2))

	warm, err := NewSession(frame)
	require.NoError(t, err)
	n, err := warm.LoadCache(path)
	require.NoError(t, err)
	require.Equal(t, s.Cache().Len(), n)

	second, err := warm.Select(Search{})
	require.NoError(t, err)
	require.Zero(t, second.Stats.Evaluations)
	require.Equal(t, first.Subset.Key(), second.Subset.Key())

	n, err = warm.LoadCache(filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)
	require.Zero(t, n)

	other, err := dataset.NewFrame([]string{"A"}, [][]float64{{1, 2, 3}}, "Y", []float64{1, 2, 3})
	require.NoError(t, err)
	small, err := NewSession(other)
	require.NoError(t, err)
	_, err = small.LoadCache(path)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestPredictorID(t *testing.T) {
	require.Equal(t, PredictorID("SNOW"), PredictorID("SNOW"))
	require.NotEqual(t, PredictorID("SNOW"), PredictorID("RAIN"))

	frame := flowFrame(t)
	i, ok := frame.Index("RAIN")
	require.True(t, ok)
	require.Equal(t, PredictorID("RAIN"), frame.ID(i))
}
