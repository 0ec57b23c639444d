package spline

import "gonum.org/v1/gonum/mat"

// Spline is a fitted cubic B-spline.
type Spline struct {
	lsq    *LSQ
	coeffs *mat.VecDense
}

// Coeffs returns a copy of the B-spline coefficients.
func (s *Spline) Coeffs() []float64 {
	return append([]float64(nil), s.coeffs.RawVector().Data...)
}

// Eval evaluates the spline at x. Values outside the fitted range are
// extrapolated from the end polynomial pieces.
func (s *Spline) Eval(x float64) float64 {
	span := s.lsq.findSpan(x)
	var basis [Degree + 1]float64
	s.lsq.basisFuncs(span, x, basis[:])

	v := 0.0
	for r, b := range basis {
		v += b * s.coeffs.AtVec(span-Degree+r)
	}
	return v
}

// EvalGrid evaluates the spline at every sample position it was fitted on.
func (s *Spline) EvalGrid() []float64 {
	out := mat.NewVecDense(len(s.lsq.x), nil)
	out.MulVec(s.lsq.design, s.coeffs)
	return out.RawVector().Data
}
