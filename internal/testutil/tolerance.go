package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance). The worst index is
// reported.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	i, diff := worst(t, got, want, func(i int) float64 { return math.Abs(got[i] - want[i]) })
	if !(diff <= eps) {
		t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
	}
}

// RequireSliceRelative fails t if any element of got deviates from want by
// more than rel times |want|. Continuum and flux levels are compared this
// way since their scale is arbitrary.
func RequireSliceRelative(t *testing.T, got, want []float64, rel float64) {
	t.Helper()
	i, diff := worst(t, got, want, func(i int) float64 {
		return math.Abs(got[i]-want[i]) / math.Max(math.Abs(want[i]), math.SmallestNonzeroFloat64)
	})
	if !(diff <= rel) {
		t.Fatalf("index %d: got %v, want %v (relative diff %v > %v)", i, got[i], want[i], diff, rel)
	}
}

// RequireWithinErrors fails t if any element of got is more than nsigma
// error bars away from want, and returns the chi-square of the pair.
func RequireWithinErrors(t *testing.T, got, want, sigma []float64, nsigma float64) float64 {
	t.Helper()
	if len(sigma) != len(want) {
		t.Fatalf("length mismatch: %d errors for %d samples", len(sigma), len(want))
	}
	i, dev := worst(t, got, want, func(i int) float64 { return math.Abs(got[i]-want[i]) / sigma[i] })
	if !(dev <= nsigma) {
		t.Fatalf("index %d: got %v, want %v +- %v (%v sigma > %v)", i, got[i], want[i], sigma[i], dev, nsigma)
	}

	chi2 := 0.0
	for i := range got {
		d := (got[i] - want[i]) / sigma[i]
		chi2 += d * d
	}
	return chi2
}

// worst returns the index with the largest metric. NaN wins.
func worst(t *testing.T, got, want []float64, metric func(int) float64) (int, float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	idx, most := 0, 0.0
	for i := range got {
		m := metric(i)
		if math.IsNaN(m) {
			return i, m
		}
		if m > most {
			idx, most = i, m
		}
	}
	return idx, most
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}
