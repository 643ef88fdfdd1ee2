// Package errs defines the sentinel errors shared across sbfs packages.
//
// Callers should match them with errors.Is; packages wrap them with
// additional context using fmt.Errorf("...: %w", err).
package errs

import "errors"

// Configuration errors. These are surfaced when a selector or session is
// constructed and are never produced in the middle of a search.
var (
	ErrLengthMismatch      = errors.New("bit-vector length does not match predictor pool")
	ErrIndexOutOfRange     = errors.New("predictor index out of range")
	ErrEmptyPool           = errors.New("predictor pool is empty")
	ErrDuplicatePredictor  = errors.New("duplicate predictor name")
	ErrInvalidPredictor    = errors.New("invalid predictor name")
	ErrUnknownPredictor    = errors.New("unknown predictor")
	ErrRaggedColumns       = errors.New("predictor columns and target have different lengths")
	ErrTargetNaN           = errors.New("target contains NaN values")
	ErrUnknownRegressor    = errors.New("unknown regressor")
	ErrUnknownScorer       = errors.New("unknown scorer")
	ErrUnknownValidator    = errors.New("unknown cross-validator")
	ErrNoScorers           = errors.New("at least one scorer is required")
	ErrInvalidFoldCount    = errors.New("invalid cross-validation fold count")
	ErrRegressorRegistered = errors.New("regressor already registered")
	ErrMissingRegressor    = errors.New("regressor is required")
	ErrMissingFrame        = errors.New("data frame is required")
)

// Fit errors. The selector converts these into all-NaN score records.
var (
	ErrNotFitted          = errors.New("regressor has not been fitted")
	ErrDegenerateSubset   = errors.New("too few observations for the number of features")
	ErrSingularDesign     = errors.New("design matrix is singular")
	ErrNonPositiveTarget  = errors.New("target must be strictly positive")
	ErrNotConverged       = errors.New("iterative fit did not converge")
	ErrDimensionMismatch  = errors.New("matrix dimensions do not match")
	ErrZeroVariance       = errors.New("predictor has zero variance")
	ErrTooFewObservations = errors.New("too few observations for cross-validation")
	ErrMissingValues      = errors.New("design contains missing values")
)

// Snapshot errors.
var (
	ErrInvalidSnapshot  = errors.New("invalid cache snapshot")
	ErrChecksumMismatch = errors.New("cache snapshot checksum mismatch")
	ErrUnsupportedCodec = errors.New("unsupported compression codec")
)
