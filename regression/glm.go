package regression

import (
	"fmt"
	"math"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
)

const (
	glmMaxIterations = 100
	glmTolerance     = 1e-8
)

// gammaModel is a Gamma family generalized linear model with log link.
//
// With a log link the Gamma working weights are constant, so each IRLS step
// reduces to an ordinary least squares fit of the working response
// z = eta + (y - mu) / mu.
type gammaModel struct {
	b0   float64
	coef []float64
}

func (m *gammaModel) fit(x dataset.Matrix, y []float64) error {
	for i, v := range y {
		if !(v > 0) {
			return fmt.Errorf("%w: y[%d] = %g", errs.ErrNonPositiveTarget, i, v)
		}
	}

	// Start from mu = y, i.e. eta = log(y).
	z := make([]float64, len(y))
	for i, v := range y {
		z[i] = math.Log(v)
	}

	dev := math.Inf(1)
	for range glmMaxIterations {
		b0, coef, err := leastSquares(x, z)
		if err != nil {
			return err
		}

		eta := linearPredict(x, b0, coef)
		next := 0.0
		for i, e := range eta {
			mu := math.Exp(e)
			if math.IsInf(mu, 0) || mu == 0 {
				return fmt.Errorf("%w: linear predictor diverged", errs.ErrNotConverged)
			}
			next += 2 * (-math.Log(y[i]/mu) + (y[i]-mu)/mu)
			z[i] = e + (y[i]-mu)/mu
		}

		m.b0, m.coef = b0, coef
		if math.Abs(next-dev)/(math.Abs(next)+0.1) < glmTolerance {
			return nil
		}
		dev = next
	}

	return fmt.Errorf("%w: deviance %g after %d iterations", errs.ErrNotConverged, dev, glmMaxIterations)
}

func (m *gammaModel) predict(x dataset.Matrix) []float64 {
	out := linearPredict(x, m.b0, m.coef)
	for i, e := range out {
		out[i] = math.Exp(e)
	}

	return out
}

func (m *gammaModel) coefficients() []float64 {
	return append([]float64(nil), m.coef...)
}

func (m *gammaModel) intercept() float64 { return m.b0 }
