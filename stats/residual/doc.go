// Package residual summarizes fit residuals: chi-square, RMS, extremes and
// the first four moments.
//
// [Calculate] computes everything in a single pass. The standalone helpers
// ([ChiSquare], [RMS], [Moments], [SignChanges]) are cheaper when only one
// figure is needed.
package residual
