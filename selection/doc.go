// Package selection implements Sequential Backward Floating Selection (SBFS)
// of predictor subsets.
//
// A Selector starts from an initial subset (all predictors by default, always
// including the forced predictors) and alternates two passes until an outer
// iteration leaves the current subset unchanged:
//
//   - Subtract: one left-to-right sweep that tries removing each included,
//     non-forced predictor and accepts every removal the comparator prefers.
//   - Add: sweeps over the excluded predictors, accepting every preferred
//     addition; a sweep that accepted anything is followed by a fresh sweep.
//
// Both passes accept the first improving candidate in pool order. Every probe
// is judged against the most recently accepted subset.
//
// # Evaluation
//
// A subset is evaluated at most once per cache. Fresh evaluations build the
// design matrix (dropping rows with missing predictor values unless the
// regressor is NaN-tolerant), fit with cross-validation and keep the
// cross-validated score record. Degenerate subsets and fit failures produce
// all-NaN records and never abort the search. Each fresh evaluation is
// appended to the result log and reported to the optional Listener.
//
// # Usage
//
//	reg, _ := regression.New("MLR", scorers, cv)
//	sel, err := selection.New(frame, reg,
//	    selection.WithForced(forced),
//	    selection.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	res := sel.Run()
//	fmt.Println(res.Names, res.Score)
package selection
