// Package score defines score records, the named scorers that produce them
// and the comparator that decides whether one record is preferred to another.
//
// A Record is an ordered list of (metric, value) pairs whose names are exactly
// the configured scorer names, in configured order. A NaN value means the
// metric could not be computed for the subset, for example because there were
// too few observations for the number of features.
//
// # Scorers
//
//   - R2:     coefficient of determination (higher is better)
//   - ADJ_R2: adjusted R² using the number of features (higher is better)
//   - NSE:    Nash-Sutcliffe efficiency (higher is better)
//   - RMSE:   root mean square error (lower is better)
//   - MSE:    mean square error (lower is better)
//   - MAE:    mean absolute error (lower is better)
//
// # Comparison
//
// The comparator built by Set.NewComparator walks the metrics in order and lets
// the first metric that differs decide. NaN never wins: a NaN on the new side
// is never preferred, and any value is preferred over a NaN on the old side.
package score
