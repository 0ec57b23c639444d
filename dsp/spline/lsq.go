package spline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

// Degree of the B-spline basis.
const Degree = 3

// maxCondition bounds the condition number of the design matrix.
const maxCondition = 1e12

var (
	ErrTooFewPoints   = errors.New("spline: too few points for the number of coefficients")
	ErrNotIncreasing  = errors.New("spline: x must be strictly increasing")
	ErrKnotOutOfRange = errors.New("spline: knots must be strictly increasing and inside (x[0], x[n-1])")
	ErrSingular       = errors.New("spline: design matrix is singular")
	ErrLengthMismatch = errors.New("spline: y must have the same length as x")
	ErrNonFinite      = errors.New("spline: non-finite value")
)

// LSQ is a factorized least-squares problem for a cubic B-spline over fixed
// sample positions and interior knots. It is safe for sequential reuse; it is
// not safe for concurrent Fit calls.
type LSQ struct {
	x      []float64
	knots  []float64 // full knot vector
	design *mat.Dense
	qr     mat.QR
}

// NewLSQ prepares a least-squares spline fit over the sample positions x with
// the given interior knots.
func NewLSQ(x, interior []float64) (*LSQ, error) {
	if !core.StrictlyIncreasing(x) || !core.AllFinite(x) {
		return nil, ErrNotIncreasing
	}
	numCoeffs := len(interior) + Degree + 1
	if len(x) < numCoeffs {
		return nil, fmt.Errorf("%w: %d points, %d coefficients", ErrTooFewPoints, len(x), numCoeffs)
	}
	if !core.StrictlyIncreasing(interior) {
		return nil, ErrKnotOutOfRange
	}
	lo, hi := x[0], x[len(x)-1]
	for _, k := range interior {
		if !(k > lo && k < hi) {
			return nil, fmt.Errorf("%w: %v not in (%v, %v)", ErrKnotOutOfRange, k, lo, hi)
		}
	}

	s := &LSQ{
		x:     append([]float64(nil), x...),
		knots: fullKnots(lo, hi, interior),
	}

	s.design = mat.NewDense(len(x), numCoeffs, nil)
	basis := make([]float64, Degree+1)
	for i, xi := range s.x {
		span := s.findSpan(xi)
		s.basisFuncs(span, xi, basis)
		for r, b := range basis {
			s.design.Set(i, span-Degree+r, b)
		}
	}

	if !s.schoenbergWhitney() {
		return nil, fmt.Errorf("%w: knots not interlaced with samples", ErrSingular)
	}

	s.qr.Factorize(s.design)
	if c := s.qr.Cond(); c > maxCondition {
		return nil, fmt.Errorf("%w: condition number %g", ErrSingular, c)
	}

	return s, nil
}

// NumCoeffs returns the number of B-spline coefficients.
func (s *LSQ) NumCoeffs() int { return len(s.knots) - Degree - 1 }

// Knots returns a copy of the full knot vector.
func (s *LSQ) Knots() []float64 { return append([]float64(nil), s.knots...) }

// Fit solves for the spline minimizing sum (y[i] - S(x[i]))^2.
func (s *LSQ) Fit(y []float64) (*Spline, error) {
	if len(y) != len(s.x) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(y), len(s.x))
	}
	if !core.AllFinite(y) {
		return nil, ErrNonFinite
	}

	coeffs := mat.NewVecDense(s.NumCoeffs(), nil)
	if err := s.qr.SolveVecTo(coeffs, false, mat.NewVecDense(len(y), append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingular, err)
	}

	return &Spline{lsq: s, coeffs: coeffs}, nil
}

// schoenbergWhitney reports whether every basis function can be paired with a
// distinct, increasing sample where it is positive.
func (s *LSQ) schoenbergWhitney() bool {
	rows, cols := s.design.Dims()
	i := 0
	for j := 0; j < cols; j++ {
		for i < rows && s.design.At(i, j) <= 0 {
			i++
		}
		if i == rows {
			return false
		}
		i++
	}
	return true
}

// findSpan returns mu with knots[mu] <= x < knots[mu+1], clamped to the
// valid range so that x at the right end falls into the last span.
func (s *LSQ) findSpan(x float64) int {
	n := s.NumCoeffs() - 1
	if x >= s.knots[n+1] {
		return n
	}
	if x <= s.knots[Degree] {
		return Degree
	}
	lo, hi := Degree, n+1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < s.knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// basisFuncs fills out with the Degree+1 non-zero basis functions at x,
// N[span-Degree] .. N[span], using the Cox-de Boor recurrence.
func (s *LSQ) basisFuncs(span int, x float64, out []float64) {
	var left, right [Degree + 1]float64
	out[0] = 1
	for j := 1; j <= Degree; j++ {
		left[j] = x - s.knots[span+1-j]
		right[j] = s.knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := out[r] / (right[r+1] + left[j-r])
			out[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		out[j] = saved
	}
}

func fullKnots(lo, hi float64, interior []float64) []float64 {
	t := make([]float64, 0, len(interior)+2*(Degree+1))
	for range Degree + 1 {
		t = append(t, lo)
	}
	t = append(t, interior...)
	for range Degree + 1 {
		t = append(t, hi)
	}
	return t
}
