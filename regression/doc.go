// Package regression provides the pluggable regression backends used to score
// candidate predictor subsets.
//
// Every backend satisfies the Regressor contract: it fits a design matrix and
// target, optionally cross-validates through a crossval.Validator, and returns
// in-sample and cross-validated score records keyed by the configured scorers.
// Backends are resolved by name through a registry so that the selector can be
// configured from a file or command line.
//
// # Built-in Backends
//
//   - MLR:       multiple linear regression, ordinary least squares via QR (default)
//   - GAMMA_GLM: generalized linear model with Gamma family and log link, fitted by IRLS
//   - ZSCORE:    Z-score composite regression; tolerates missing predictor values
//
// # NaN Handling
//
// Rows where a selected predictor is NaN are normally dropped before fitting.
// Backends registered as NaN-tolerant (ZSCORE) receive every row instead and
// handle missing values themselves. Use NaNTolerant to query the registry.
//
// # Basic Usage
//
//	scorers, _ := score.NewSet("ADJ_R2", "RMSE")
//	cv, _ := crossval.New("KFOLD_5")
//	reg, err := regression.New("MLR", scorers, cv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := reg.Fit(x, y, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.CVScores)
//
// # Degenerate Fits
//
// Scores are all-NaN when the number of features exceeds the number of
// predictions minus two, mirroring the scorer set rule. A design with fewer
// rows than coefficients is rejected with errs.ErrDegenerateSubset.
package regression
