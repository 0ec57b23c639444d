package testutil

import (
	"math"
	"testing"
)

func TestAbsorptionSpectrum(t *testing.T) {
	w := Linspace(5000, 5010, 1001)
	s := AbsorptionSpectrum(w, []Line{{Center: 5005, Depth: 0.4, Sigma: 0.05}})
	if math.Abs(s[500]-0.6) > 1e-12 {
		t.Fatalf("line center = %v, want 0.6", s[500])
	}
	if math.Abs(s[0]-1) > 1e-12 || math.Abs(s[1000]-1) > 1e-12 {
		t.Fatalf("continuum = %v/%v, want 1", s[0], s[1000])
	}
}

func TestLineList(t *testing.T) {
	lines := LineList(5000, 5010, 20)
	if len(lines) != 20 {
		t.Fatalf("len = %d, want 20", len(lines))
	}
	for i, l := range lines {
		if l.Center <= 5000 || l.Center >= 5010 {
			t.Fatalf("line %d center %v outside range", i, l.Center)
		}
		if l.Depth < 0.2 || l.Depth > 0.7 {
			t.Fatalf("line %d depth %v outside [0.2, 0.7]", i, l.Depth)
		}
		if l.Sigma <= 0 {
			t.Fatalf("line %d has non-positive width", i)
		}
	}
}

func TestScale(t *testing.T) {
	got := Scale([]float64{1, 2, 3}, []float64{2, 0.5, -1})
	RequireSliceNearlyEqual(t, got, []float64{2, 1, -3}, 0)
}
