// Package spline fits least-squares cubic B-splines with fixed interior knots.
//
// The basis depends only on the sample positions and the knots, so [NewLSQ]
// builds and QR-factorizes the design matrix once. Each call to [LSQ.Fit]
// then costs a single triangular solve, which suits continuum fits that are
// repeated for every trial model:
//
//	lsq, err := spline.NewLSQ(wavelengths, knots)
//	s, err := lsq.Fit(ratio)
//	continuum := s.EvalGrid()
//
// The full knot vector is the interior knots with the first and last sample
// repeated Degree+1 times, so a spline with k interior knots has k+4
// coefficients.
package spline
