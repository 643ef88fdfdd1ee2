// Package dataset holds the predictor pool and target series for a search and
// builds the design matrix for a candidate subset.
//
// A Frame is immutable after construction. For each predictor it keeps a
// roaring bitmap of the rows where the predictor is observed, so the rows
// usable by a subset are the intersection of the bitmaps of its predictors.
// NaN-tolerant regressors skip that filtering and receive every row.
package dataset
