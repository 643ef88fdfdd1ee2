package regression

import (
	"fmt"

	"github.com/arloliu/sbfs/crossval"
	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/errs"
	"github.com/arloliu/sbfs/score"
)

// Regressor is the fit/predict/score contract consumed by the selector.
type Regressor interface {
	// Name returns the registry name of the backend.
	Name() string
	// Scorers returns the ordered metric names of every score record.
	Scorers() []string
	// CrossValidation returns the name of the cross-validator in use.
	CrossValidation() string
	// Fit fits x and y and scores the fit. With crossValidate set the result
	// also carries cross-validated predictions and scores.
	Fit(x dataset.Matrix, y []float64, crossValidate bool) (*FitResult, error)
	// Predict applies the last successful fit to x.
	Predict(x dataset.Matrix) ([]float64, error)
	// Coefficients returns the per-feature coefficients of the last fit.
	Coefficients() []float64
	// Intercept returns the intercept of the last fit.
	Intercept() float64
	// Residuals returns observed minus predicted values of the last fit.
	Residuals() []float64
}

// FitResult is the outcome of Regressor.Fit.
type FitResult struct {
	Scores        score.Record
	Predictions   []float64
	CVScores      score.Record
	CVPredictions []float64
}

// model is the numeric core of a backend. A fresh model is created for the
// full fit and for every cross-validation fold.
type model interface {
	fit(x dataset.Matrix, y []float64) error
	predict(x dataset.Matrix) []float64
	coefficients() []float64
	intercept() float64
}

// Estimator implements Regressor on top of a model constructor. It owns the
// cross-validation loop and scoring shared by every built-in backend.
//
// An Estimator keeps the state of its last fit and is not safe for concurrent
// use; create one per search.
type Estimator struct {
	name      string
	newModel  func() model
	scorers   score.Set
	validator crossval.Validator

	fitted model
	y      []float64
	yp     []float64
}

var _ Regressor = (*Estimator)(nil)

func newEstimator(name string, newModel func() model, scorers score.Set, validator crossval.Validator) *Estimator {
	if validator == nil {
		validator = crossval.KFold{K: 5}
	}

	return &Estimator{
		name:      name,
		newModel:  newModel,
		scorers:   scorers,
		validator: validator,
	}
}

// Name implements Regressor.
func (e *Estimator) Name() string { return e.name }

// Scorers implements Regressor.
func (e *Estimator) Scorers() []string { return e.scorers.Names() }

// CrossValidation implements Regressor.
func (e *Estimator) CrossValidation() string { return e.validator.Name() }

// Fit implements Regressor.
//
// Parameters:
//   - x: observations × selected predictors
//   - y: target values, one per row of x
//   - crossValidate: also fit every fold of the configured validator
//
// Returns:
//   - *FitResult: in-sample scores and predictions, plus cross-validated ones when requested
//   - error: ErrDegenerateSubset, ErrTooFewObservations or a backend fit error
func (e *Estimator) Fit(x dataset.Matrix, y []float64, crossValidate bool) (*FitResult, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d targets", errs.ErrDimensionMismatch, rows, len(y))
	}
	if rows < cols+1 {
		return nil, fmt.Errorf("%w: %d rows for %d features", errs.ErrDegenerateSubset, rows, cols)
	}

	m := e.newModel()
	if err := m.fit(x, y); err != nil {
		return nil, fmt.Errorf("%s fit failed: %w", e.name, err)
	}

	e.fitted = m
	e.y = y
	e.yp = m.predict(x)

	res := &FitResult{
		Scores:      e.scorers.Score(y, e.yp, cols),
		Predictions: e.yp,
	}
	if !crossValidate {
		return res, nil
	}

	if rows < e.validator.MinRows() {
		return nil, fmt.Errorf("%w: %s needs %d rows, have %d", errs.ErrTooFewObservations, e.validator.Name(), e.validator.MinRows(), rows)
	}

	cvPred := make([]float64, 0, rows)
	fold := 0
	for f := range e.validator.Folds(x, y) {
		fm := e.newModel()
		if err := fm.fit(f.TrainX, f.TrainY); err != nil {
			return nil, fmt.Errorf("%s fold %d fit failed: %w", e.name, fold, err)
		}
		cvPred = append(cvPred, fm.predict(f.TestX)...)
		fold++
	}

	res.CVPredictions = cvPred
	res.CVScores = e.scorers.Score(y, cvPred, cols)

	return res, nil
}

// Predict implements Regressor.
func (e *Estimator) Predict(x dataset.Matrix) ([]float64, error) {
	if e.fitted == nil {
		return nil, errs.ErrNotFitted
	}
	if want := len(e.fitted.coefficients()); x.Cols() != want {
		return nil, fmt.Errorf("%w: %d features, model has %d", errs.ErrDimensionMismatch, x.Cols(), want)
	}

	return e.fitted.predict(x), nil
}

// Coefficients implements Regressor. It returns nil before the first fit.
func (e *Estimator) Coefficients() []float64 {
	if e.fitted == nil {
		return nil
	}

	return e.fitted.coefficients()
}

// Intercept implements Regressor.
func (e *Estimator) Intercept() float64 {
	if e.fitted == nil {
		return 0
	}

	return e.fitted.intercept()
}

// Residuals implements Regressor.
func (e *Estimator) Residuals() []float64 {
	if e.fitted == nil {
		return nil
	}

	out := make([]float64, len(e.y))
	for i := range e.y {
		out[i] = e.y[i] - e.yp[i]
	}

	return out
}
