// Package sbfs selects, from a fixed pool of candidate predictors, the subset
// that maximizes a cross-validated regression score using Sequential Backward
// Floating Selection.
//
// The root package is a thin facade over the building blocks:
//
//   - dataset: the predictor pool, target and missing-value handling
//   - regression: pluggable backends (MLR, GAMMA_GLM, ZSCORE) resolved by name
//   - score: metrics and the lexicographic comparator
//   - crossval: K-fold and leave-one-out validators
//   - cache: the memoized, snapshot-able evaluation cache
//   - selection: the floating search itself
//
// # Core Features
//
//   - Every subset is fitted at most once per session
//   - Forced predictors are never removed
//   - Fit failures and degenerate subsets score NaN instead of aborting
//   - Independent searches with different regressors run concurrently
//
// # Basic Usage
//
//	frame, _ := dataset.ReadCSV(f, "FLOW")
//	session, err := sbfs.NewSession(frame,
//	    sbfs.WithRegressor("MLR"),
//	    sbfs.WithScoring("ADJ_R2", "RMSE"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := session.Select(sbfs.Search{Forced: []string{"SNOW"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Names, res.Score)
//
// # Package Structure
//
// Use the sub-packages directly for custom regressors, comparators or
// listeners; the Session covers the common configuration-driven path.
package sbfs

import "github.com/arloliu/sbfs/internal/hash"

// PredictorID returns the 64-bit xxHash64 identifier of a predictor name.
//
// Identifiers are stable across runs and platforms, so they can key external
// reports. The dataset frame reports collisions between names of one pool.
func PredictorID(name string) uint64 {
	return hash.ID(name)
}
