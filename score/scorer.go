package score

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/sbfs/errs"
)

// Direction tells the comparator which way a metric improves.
type Direction int

const (
	// HigherIsBetter marks metrics such as R² where larger values win.
	HigherIsBetter Direction = iota
	// LowerIsBetter marks error metrics such as RMSE where smaller values win.
	LowerIsBetter
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	if d == LowerIsBetter {
		return "lower-is-better"
	}

	return "higher-is-better"
}

// Func computes a metric from observed and predicted values. nFeatures is the
// number of predictors of the fitted model, used by adjusted metrics.
type Func func(observed, predicted []float64, nFeatures int) float64

// Scorer is a named metric with its preference direction.
type Scorer struct {
	Name      string
	Direction Direction
	Fn        Func
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Scorer{
		"R2":     {Name: "R2", Direction: HigherIsBetter, Fn: RSquared},
		"ADJ_R2": {Name: "ADJ_R2", Direction: HigherIsBetter, Fn: AdjustedRSquared},
		"NSE":    {Name: "NSE", Direction: HigherIsBetter, Fn: NashSutcliffe},
		"RMSE":   {Name: "RMSE", Direction: LowerIsBetter, Fn: RMSE},
		"MSE":    {Name: "MSE", Direction: LowerIsBetter, Fn: MSE},
		"MAE":    {Name: "MAE", Direction: LowerIsBetter, Fn: MAE},
	}
)

// Register adds a custom scorer. Names are case-insensitive and stored upper-case.
func Register(s Scorer) error {
	if s.Name == "" || s.Fn == nil {
		return fmt.Errorf("%w: scorer needs a name and a function", errs.ErrUnknownScorer)
	}
	s.Name = strings.ToUpper(s.Name)

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Name] = s

	return nil
}

// Lookup returns the scorer registered under name.
func Lookup(name string) (Scorer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[strings.ToUpper(name)]
	if !ok {
		return Scorer{}, fmt.Errorf("%w: %q", errs.ErrUnknownScorer, name)
	}

	return s, nil
}

// Names returns the registered scorer names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// RSquared calculates the coefficient of determination, 1 - SS_res/SS_tot.
// It returns NaN when the observed values have no variance.
func RSquared(observed, predicted []float64, _ int) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return math.NaN()
	}

	mean := stat.Mean(observed, nil)
	ssTot, ssRes := 0.0, 0.0
	for i := range observed {
		ssTot += (observed[i] - mean) * (observed[i] - mean)
		ssRes += (observed[i] - predicted[i]) * (observed[i] - predicted[i])
	}

	if ssTot == 0 {
		return math.NaN()
	}

	return 1.0 - ssRes/ssTot
}

// AdjustedRSquared penalizes R² by the number of features:
// 1 - (1 - R²)(n - 1)/(n - p - 1).
func AdjustedRSquared(observed, predicted []float64, nFeatures int) float64 {
	n := len(observed)
	if n-nFeatures-1 <= 0 {
		return math.NaN()
	}

	r2 := RSquared(observed, predicted, nFeatures)

	return 1.0 - (1.0-r2)*float64(n-1)/float64(n-nFeatures-1)
}

// NashSutcliffe computes the Nash-Sutcliffe model efficiency. It has the same
// form as R² but is conventionally reported for streamflow forecasts.
func NashSutcliffe(observed, predicted []float64, nFeatures int) float64 {
	return RSquared(observed, predicted, nFeatures)
}

// MSE calculates the mean square error.
func MSE(observed, predicted []float64, _ int) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return math.NaN()
	}

	sumSq := 0.0
	for i := range observed {
		diff := observed[i] - predicted[i]
		sumSq += diff * diff
	}

	return sumSq / float64(len(observed))
}

// RMSE calculates the root mean square error.
func RMSE(observed, predicted []float64, nFeatures int) float64 {
	return math.Sqrt(MSE(observed, predicted, nFeatures))
}

// MAE calculates the mean absolute error.
func MAE(observed, predicted []float64, _ int) float64 {
	if len(observed) == 0 || len(observed) != len(predicted) {
		return math.NaN()
	}

	sum := 0.0
	for i := range observed {
		sum += math.Abs(observed[i] - predicted[i])
	}

	return sum / float64(len(observed))
}
