package regression

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
)

// maxCondition is the condition number above which a least squares design is
// treated as singular.
const maxCondition = 1e12

// leastSquares solves y = b0 + X·b by QR decomposition of the design with a
// leading intercept column.
func leastSquares(x dataset.Matrix, y []float64) (float64, []float64, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return 0, nil, fmt.Errorf("%w: %d rows, %d targets", errs.ErrDimensionMismatch, rows, len(y))
	}
	if rows < cols+1 {
		return 0, nil, fmt.Errorf("%w: %d rows for %d features", errs.ErrDegenerateSubset, rows, cols)
	}
	if floats.HasNaN(x.Raw()) || floats.HasNaN(y) {
		return 0, nil, errs.ErrMissingValues
	}

	design := mat.NewDense(rows, cols+1, nil)
	for i := range rows {
		design.Set(i, 0, 1)
		for j := range cols {
			design.Set(i, j+1, x.At(i, j))
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(rows, append([]float64(nil), y...))); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return 0, nil, fmt.Errorf("%w: condition number %g", errs.ErrSingularDesign, float64(cond))
		}

		return 0, nil, err
	}
	if qr.Cond() > maxCondition {
		return 0, nil, fmt.Errorf("%w: condition number %g", errs.ErrSingularDesign, qr.Cond())
	}

	coef := make([]float64, cols)
	for j := range cols {
		coef[j] = beta.AtVec(j + 1)
	}

	return beta.AtVec(0), coef, nil
}

// linearPredict returns b0 + X·b for every row of x.
func linearPredict(x dataset.Matrix, b0 float64, coef []float64) []float64 {
	out := make([]float64, x.Rows())
	for i := range out {
		out[i] = b0 + floats.Dot(x.Row(i), coef)
	}

	return out
}

// linearModel is ordinary least squares multiple linear regression.
type linearModel struct {
	b0   float64
	coef []float64
}

func (m *linearModel) fit(x dataset.Matrix, y []float64) error {
	b0, coef, err := leastSquares(x, y)
	if err != nil {
		return err
	}
	m.b0, m.coef = b0, coef

	return nil
}

func (m *linearModel) predict(x dataset.Matrix) []float64 {
	return linearPredict(x, m.b0, m.coef)
}

func (m *linearModel) coefficients() []float64 {
	return append([]float64(nil), m.coef...)
}

func (m *linearModel) intercept() float64 { return m.b0 }
