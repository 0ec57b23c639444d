package interp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

var (
	ErrTooFewPoints   = errors.New("interp: need at least 2 samples")
	ErrNotIncreasing  = errors.New("interp: sample positions must be strictly increasing")
	ErrLengthMismatch = errors.New("interp: x and y lengths differ")
	ErrOutOfRange     = errors.New("interp: query outside the sampled range")
)

// Method selects the interpolation kernel.
type Method int

const (
	// Linear joins neighboring samples with straight lines.
	Linear Method = iota
	// Hermite uses cubic segments whose end slopes are centered finite
	// differences. It reproduces quadratics on uniform grids.
	Hermite
)

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Hermite:
		return "hermite"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Resample evaluates the curve sampled at (x, y) at each position in xq.
// x must be strictly increasing and every xq must lie inside [x[0], x[n-1]].
func Resample(x, y, xq []float64, m Method) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return nil, ErrTooFewPoints
	}
	if !core.AllFinite(x) || !core.StrictlyIncreasing(x) {
		return nil, ErrNotIncreasing
	}

	n := len(x)
	out := make([]float64, len(xq))
	for k, q := range xq {
		if !(q >= x[0] && q <= x[n-1]) {
			return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, q, x[0], x[n-1])
		}

		// Segment [x[i], x[i+1]] containing q.
		i := sort.SearchFloat64s(x, q)
		if i > 0 && (i == n || x[i] > q) {
			i--
		}
		if i == n-1 {
			out[k] = y[n-1]
			continue
		}

		h := x[i+1] - x[i]
		t := (q - x[i]) / h
		switch m {
		case Hermite:
			t0 := h * slope(x, y, i)
			t1 := h * slope(x, y, i+1)
			// Virtual neighbors turn the slopes into a uniform 4-point stencil.
			out[k] = Hermite4(t, y[i+1]-2*t0, y[i], y[i+1], y[i]+2*t1)
		default:
			out[k] = y[i] + t*(y[i+1]-y[i])
		}
	}
	return out, nil
}

// slope is the finite-difference derivative at sample i: centered inside,
// one-sided at the ends.
func slope(x, y []float64, i int) float64 {
	switch {
	case i == 0:
		return (y[1] - y[0]) / (x[1] - x[0])
	case i == len(x)-1:
		return (y[i] - y[i-1]) / (x[i] - x[i-1])
	default:
		return (y[i+1] - y[i-1]) / (x[i+1] - x[i-1])
	}
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
