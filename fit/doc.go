// Package fit minimizes objectives over named, bounded parameters.
//
// A [Parameters] set holds ordered [Parameter] values with optional bounds and
// a vary flag. Minimizers work on the free parameters only, in an unbounded
// internal space: a parameter bounded on both sides maps as
//
//	x = min + (sin(u) + 1) * (max - min) / 2
//
// and one-sided bounds use x = min - 1 + sqrt(u^2 + 1) (or the mirror image),
// so every trial point respects the bounds.
//
// Two strategies implement [Minimizer]:
//
//   - [LeastSquares]: Levenberg-Marquardt on the residual vector with a
//     forward-difference Jacobian.
//   - [NelderMead]: derivative-free simplex search on the scalar chi-square.
//
// An [Objective] returns both shapes in a [Value]; each strategy reads the one
// it needs. A minimizer that stops on an iteration or evaluation limit returns
// the best point found together with an error wrapping [ErrNonConvergence].
package fit
