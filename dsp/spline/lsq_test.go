package spline

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
)

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func TestLSQReproducesCubic(t *testing.T) {
	x := linspace(5000, 5010, 1000)
	knots := []float64{x[166], x[332], x[498], x[664], x[830]}

	cubic := func(v float64) float64 {
		u := v - 5005
		return 1 + 0.3*u - 0.02*u*u + 0.004*u*u*u
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = cubic(v)
	}

	lsq, err := NewLSQ(x, knots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lsq.NumCoeffs() != 9 {
		t.Fatalf("NumCoeffs() = %d, want 9", lsq.NumCoeffs())
	}

	s, err := lsq.Fit(y)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, s.EvalGrid(), y, 1e-9)

	for _, v := range []float64{5000, 5000.005, 5003.3333, 5007.77, 5010} {
		if got, want := s.Eval(v), cubic(v); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Eval(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestLSQConstant(t *testing.T) {
	x := linspace(0, 1, 60)
	lsq, err := NewLSQ(x, []float64{0.2, 0.4, 0.6, 0.8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := lsq.Fit(testutil.Ones(len(x)))
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, s.EvalGrid(), testutil.Ones(len(x)), 1e-12)

	sum := 0.0
	for _, c := range s.Coeffs() {
		sum += c
	}
	if math.Abs(sum-float64(lsq.NumCoeffs())) > 1e-9 {
		t.Fatalf("coefficients of a constant spline should all be 1, got %v", s.Coeffs())
	}
}

func TestLSQSmoothFunction(t *testing.T) {
	x := linspace(0, 2*math.Pi, 400)
	var knots []float64
	for i := 1; i <= 10; i++ {
		knots = append(knots, x[i*36])
	}

	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Sin(v)
	}

	lsq, err := NewLSQ(x, knots)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := lsq.Fit(y)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, s.EvalGrid(), y, 5e-3)
}

func TestLSQRefitReusesFactorization(t *testing.T) {
	x := linspace(-1, 1, 50)
	lsq, err := NewLSQ(x, []float64{-0.5, 0, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := lsq.Fit(testutil.DC(2, len(x)))
	b, _ := lsq.Fit(testutil.DC(3, len(x)))
	testutil.RequireSliceNearlyEqual(t, a.EvalGrid(), testutil.DC(2, len(x)), 1e-12)
	testutil.RequireSliceNearlyEqual(t, b.EvalGrid(), testutil.DC(3, len(x)), 1e-12)
}

func TestLSQKnotVector(t *testing.T) {
	x := linspace(0, 10, 20)
	lsq, err := NewLSQ(x, []float64{3, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 0, 0, 0, 3, 6, 10, 10, 10, 10}
	testutil.RequireSliceNearlyEqual(t, lsq.Knots(), want, 0)
}

func TestNewLSQErrors(t *testing.T) {
	x := linspace(0, 19, 20)

	tests := []struct {
		name  string
		x     []float64
		knots []float64
		want  error
	}{
		{name: "too few points", x: x[:8], knots: []float64{1, 2, 3, 4, 5}, want: ErrTooFewPoints},
		{name: "not increasing", x: []float64{0, 1, 1, 2, 3, 4, 5, 6, 7, 8}, knots: []float64{4}, want: ErrNotIncreasing},
		{name: "knot at edge", x: x, knots: []float64{0, 5}, want: ErrKnotOutOfRange},
		{name: "knot outside", x: x, knots: []float64{5, 25}, want: ErrKnotOutOfRange},
		{name: "knots not increasing", x: x, knots: []float64{8, 4}, want: ErrKnotOutOfRange},
		{name: "knots without samples", x: x, knots: []float64{5.1, 5.2, 5.3, 5.4, 5.5}, want: ErrSingular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLSQ(tt.x, tt.knots)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFitErrors(t *testing.T) {
	x := linspace(0, 1, 30)
	lsq, err := NewLSQ(x, []float64{0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := lsq.Fit(make([]float64, 29)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}

	y := testutil.Ones(30)
	y[7] = math.Inf(1)
	if _, err := lsq.Fit(y); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}
}

func TestFitSingularSolve(t *testing.T) {
	x := linspace(0, 1, 30)
	lsq, err := NewLSQ(x, []float64{0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A rank-deficient factorization makes the triangular solve fail.
	lsq.qr.Factorize(mat.NewDense(len(x), lsq.NumCoeffs(), nil))
	if _, err := lsq.Fit(testutil.Ones(len(x))); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}
