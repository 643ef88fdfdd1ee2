package score

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sbfs/errs"
)

func rec(pairs ...any) Record {
	r := Record{}
	for i := 0; i < len(pairs); i += 2 {
		r = append(r, Metric{Name: pairs[i].(string), Value: pairs[i+1].(float64)})
	}

	return r
}

func TestRecord(t *testing.T) {
	r := rec("ADJ_R2", 0.5, "RMSE", 1.25)

	v, ok := r.Get("RMSE")
	require.True(t, ok)
	require.Equal(t, 1.25, v)

	v, ok = r.Get("MAE")
	require.False(t, ok)
	require.True(t, math.IsNaN(v))

	require.Equal(t, []string{"ADJ_R2", "RMSE"}, r.Names())
	require.Equal(t, map[string]float64{"ADJ_R2": 0.5, "RMSE": 1.25}, r.Map())
	require.Equal(t, "ADJ_R2=0.5 RMSE=1.25", r.String())
	require.False(t, r.HasNaN())
	require.False(t, r.AllNaN())
}

func TestNaNRecord(t *testing.T) {
	r := NaNRecord([]string{"R2", "MAE"})
	require.Equal(t, []string{"R2", "MAE"}, r.Names())
	require.True(t, r.AllNaN())
	require.True(t, r.Equal(NaNRecord([]string{"R2", "MAE"})))
	require.False(t, r.Equal(NaNRecord([]string{"MAE", "R2"})))
}

func TestScorers(t *testing.T) {
	observed := []float64{1, 2, 3, 4, 5}

	t.Run("perfect prediction", func(t *testing.T) {
		require.InDelta(t, 1.0, RSquared(observed, observed, 1), 1e-12)
		require.InDelta(t, 0.0, RMSE(observed, observed, 1), 1e-12)
		require.InDelta(t, 0.0, MAE(observed, observed, 1), 1e-12)
	})

	t.Run("mean prediction has zero R2", func(t *testing.T) {
		mean := []float64{3, 3, 3, 3, 3}
		require.InDelta(t, 0.0, RSquared(observed, mean, 0), 1e-12)
		require.InDelta(t, 2.0, MSE(observed, mean, 0), 1e-12)
		require.InDelta(t, math.Sqrt(2), RMSE(observed, mean, 0), 1e-12)
		require.InDelta(t, 1.2, MAE(observed, mean, 0), 1e-12)
	})

	t.Run("adjusted R2", func(t *testing.T) {
		predicted := []float64{1.1, 1.9, 3.2, 3.8, 5.0}
		r2 := RSquared(observed, predicted, 2)
		want := 1 - (1-r2)*4.0/2.0
		require.InDelta(t, want, AdjustedRSquared(observed, predicted, 2), 1e-12)
		require.True(t, math.IsNaN(AdjustedRSquared(observed, predicted, 4)))
	})

	t.Run("constant target is NaN", func(t *testing.T) {
		flat := []float64{2, 2, 2}
		require.True(t, math.IsNaN(RSquared(flat, flat, 0)))
	})

	t.Run("mismatched lengths are NaN", func(t *testing.T) {
		require.True(t, math.IsNaN(MSE(observed, observed[:2], 0)))
	})
}

func TestNewSet(t *testing.T) {
	set, err := NewSet("adj_r2", "RMSE")
	require.NoError(t, err)
	require.Equal(t, []string{"ADJ_R2", "RMSE"}, set.Names())

	_, err = NewSet()
	require.ErrorIs(t, err, errs.ErrNoScorers)

	_, err = NewSet("R2", "BOGUS")
	require.ErrorIs(t, err, errs.ErrUnknownScorer)
}

func TestSet_Score(t *testing.T) {
	set, err := NewSet("R2", "MAE")
	require.NoError(t, err)

	observed := []float64{1, 2, 3, 4, 5}
	r := set.Score(observed, observed, 2)
	require.Equal(t, []string{"R2", "MAE"}, r.Names())
	require.False(t, r.HasNaN())

	// 4 features on 5 points leaves fewer than two degrees of freedom.
	r = set.Score(observed, observed, 4)
	require.True(t, r.AllNaN())
	require.Equal(t, []string{"R2", "MAE"}, r.Names())
}

func TestRegister(t *testing.T) {
	err := Register(Scorer{Name: "bias", Direction: LowerIsBetter, Fn: func(o, p []float64, _ int) float64 {
		s := 0.0
		for i := range o {
			s += p[i] - o[i]
		}

		return math.Abs(s)
	}})
	require.NoError(t, err)

	s, err := Lookup("BIAS")
	require.NoError(t, err)
	require.Equal(t, LowerIsBetter, s.Direction)
	require.Contains(t, Names(), "BIAS")

	require.Error(t, Register(Scorer{Name: "nofn"}))
}

func TestComparator(t *testing.T) {
	higher, err := NewSet("ADJ_R2")
	require.NoError(t, err)
	better := higher.NewComparator()

	nan := math.NaN()

	tests := []struct {
		name     string
		newScore Record
		oldScore Record
		want     bool
	}{
		{"strictly higher wins", rec("ADJ_R2", 0.6), rec("ADJ_R2", 0.5), true},
		{"lower loses", rec("ADJ_R2", 0.4), rec("ADJ_R2", 0.5), false},
		{"tie loses", rec("ADJ_R2", 0.5), rec("ADJ_R2", 0.5), false},
		{"new NaN loses", rec("ADJ_R2", nan), rec("ADJ_R2", 0.5), false},
		{"old NaN loses to value", rec("ADJ_R2", -3.0), rec("ADJ_R2", nan), true},
		{"both NaN loses", rec("ADJ_R2", nan), rec("ADJ_R2", nan), false},
		{"missing metric counts as NaN", Record{}, rec("ADJ_R2", 0.1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, better(tt.newScore, tt.oldScore))
		})
	}
}

func TestComparator_Lexicographic(t *testing.T) {
	set, err := NewSet("RMSE", "ADJ_R2")
	require.NoError(t, err)
	better := set.NewComparator()

	require.True(t, better(rec("RMSE", 1.0, "ADJ_R2", 0.1), rec("RMSE", 2.0, "ADJ_R2", 0.9)))
	require.False(t, better(rec("RMSE", 3.0, "ADJ_R2", 0.9), rec("RMSE", 2.0, "ADJ_R2", 0.1)))
	require.True(t, better(rec("RMSE", 2.0, "ADJ_R2", 0.9), rec("RMSE", 2.0, "ADJ_R2", 0.1)))
	require.False(t, better(rec("RMSE", 2.0, "ADJ_R2", nanValue()), rec("RMSE", 2.0, "ADJ_R2", 0.1)))
}

func nanValue() float64 { return math.NaN() }
