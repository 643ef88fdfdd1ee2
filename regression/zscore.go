package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
)

// zscoreModel regresses the target on a composite index: the mean of the
// available standardized predictor values of each row. Missing (NaN) values
// are skipped; a row with no observed predictor has a composite of zero.
type zscoreModel struct {
	mean  []float64
	std   []float64
	b0    float64
	slope float64
}

func (m *zscoreModel) fit(x dataset.Matrix, y []float64) error {
	rows, cols := x.Dims()
	if rows != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", errs.ErrDimensionMismatch, rows, len(y))
	}
	if rows < 2 {
		return fmt.Errorf("%w: %d rows", errs.ErrDegenerateSubset, rows)
	}

	m.mean = make([]float64, cols)
	m.std = make([]float64, cols)
	for j := range cols {
		observed := make([]float64, 0, rows)
		for _, v := range x.Column(j) {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) < 2 {
			return fmt.Errorf("%w: feature %d has %d observed values", errs.ErrTooFewObservations, j, len(observed))
		}

		m.mean[j], m.std[j] = stat.MeanStdDev(observed, nil)
		if m.std[j] == 0 {
			return fmt.Errorf("%w: feature %d", errs.ErrZeroVariance, j)
		}
	}

	if cols == 0 {
		m.b0, m.slope = stat.Mean(y, nil), 0
		return nil
	}

	composite, err := dataset.NewMatrix(rows, 1, m.composite(x))
	if err != nil {
		return err
	}

	b0, coef, err := leastSquares(composite, y)
	if err != nil {
		return err
	}
	m.b0, m.slope = b0, coef[0]

	return nil
}

func (m *zscoreModel) composite(x dataset.Matrix) []float64 {
	out := make([]float64, x.Rows())
	for i := range out {
		sum, n := 0.0, 0
		for j, v := range x.Row(i) {
			if math.IsNaN(v) {
				continue
			}
			sum += (v - m.mean[j]) / m.std[j]
			n++
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}

	return out
}

func (m *zscoreModel) predict(x dataset.Matrix) []float64 {
	out := m.composite(x)
	for i, c := range out {
		out[i] = m.b0 + m.slope*c
	}

	return out
}

// coefficients expresses the fit per predictor for rows with every predictor
// observed.
func (m *zscoreModel) coefficients() []float64 {
	p := float64(len(m.std))
	out := make([]float64, len(m.std))
	for j, sd := range m.std {
		out[j] = m.slope / (p * sd)
	}

	return out
}

func (m *zscoreModel) intercept() float64 {
	b0 := m.b0
	for j, c := range m.coefficients() {
		b0 -= c * m.mean[j]
	}

	return b0
}
