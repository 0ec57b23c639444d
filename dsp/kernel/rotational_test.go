package kernel

import (
	"errors"
	"math"
	"testing"
)

func TestRotationalZeroVelocityIsImpulse(t *testing.T) {
	v, w, err := Rotational(151, 0.6, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v) != 151 || len(w) != 151 {
		t.Fatalf("length mismatch: got %d/%d, want 151", len(v), len(w))
	}
	for i, x := range w {
		want := 0.0
		if i == 75 {
			want = 1
		}
		if x != want {
			t.Fatalf("weights[%d] = %v, want %v", i, x, want)
		}
	}
	if v[75] != 0 {
		t.Fatalf("center velocity = %v, want 0", v[75])
	}
}

func TestRotationalNarrowProfileIsImpulse(t *testing.T) {
	// The whole profile fits inside the center bin.
	_, w, err := Rotational(21, 1.0, 0.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(w[10]-1) > 1e-15 {
		t.Fatalf("center weight = %v, want 1", w[10])
	}
}

func TestRotationalNormalizedAndSymmetric(t *testing.T) {
	for _, vsini := range []float64{0.3, 1, 2.5, 10, 45} {
		for _, e := range []float64{0, 0.6, 1} {
			_, w, err := Rotational(151, 0.6, vsini, WithLimbDarkening(e))
			if err != nil {
				t.Fatalf("vsini=%v e=%v: unexpected error: %v", vsini, e, err)
			}

			sum := 0.0
			for i, x := range w {
				if x < 0 {
					t.Fatalf("vsini=%v e=%v: negative weight %v at %d", vsini, e, x, i)
				}
				sum += x
				if math.Abs(x-w[len(w)-1-i]) > 1e-14 {
					t.Fatalf("vsini=%v e=%v: asymmetric at %d: %v vs %v", vsini, e, i, x, w[len(w)-1-i])
				}
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Fatalf("vsini=%v e=%v: sum = %v, want 1", vsini, e, sum)
			}
		}
	}
}

func TestRotationalSupport(t *testing.T) {
	dv := 0.6
	vsini := 10.0
	v, w, err := Rotational(151, dv, vsini)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range w {
		inside := math.Abs(v[i])-dv/2 < vsini
		if !inside && w[i] != 0 {
			t.Fatalf("tap %d at %v km/s outside profile has weight %v", i, v[i], w[i])
		}
		if inside && w[i] == 0 {
			t.Fatalf("tap %d at %v km/s inside profile has zero weight", i, v[i])
		}
	}
}

func TestRotationalMatchesIntegratedProfile(t *testing.T) {
	dv := 0.5
	vsini := 7.3
	e := 0.6
	v, w, err := Rotational(101, dv, vsini, WithLimbDarkening(e))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Midpoint rule per bin with fine sub-sampling.
	const sub = 2000
	for i := range w {
		integral := 0.0
		for j := 0; j < sub; j++ {
			x := v[i] - dv/2 + (float64(j)+0.5)*dv/sub
			integral += Profile(x, vsini, e) * dv / sub
		}
		if math.Abs(integral-w[i]) > 1e-5 {
			t.Fatalf("tap %d: integrated profile %v, kernel weight %v", i, integral, w[i])
		}
	}
}

func TestRotationalTruncatedStillNormalized(t *testing.T) {
	// 11 taps at 1 km/s cover only +-5.5 km/s of a 20 km/s profile.
	_, w, err := Rotational(11, 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0.0
	for _, x := range w {
		sum += x
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("sum = %v, want 1", sum)
	}
}

func TestRotationalErrors(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		dv    float64
		vsini float64
		want  error
	}{
		{name: "even size", n: 150, dv: 1, vsini: 1, want: ErrInvalidSize},
		{name: "zero size", n: 0, dv: 1, vsini: 1, want: ErrInvalidSize},
		{name: "zero spacing", n: 151, dv: 0, vsini: 1, want: ErrInvalidSpacing},
		{name: "nan spacing", n: 151, dv: math.NaN(), vsini: 1, want: ErrInvalidSpacing},
		{name: "negative velocity", n: 151, dv: 1, vsini: -1, want: ErrInvalidVelocity},
		{name: "inf velocity", n: 151, dv: 1, vsini: math.Inf(1), want: ErrInvalidVelocity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Rotational(tt.n, tt.dv, tt.vsini)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestProfileIntegratesToOne(t *testing.T) {
	for _, e := range []float64{0, 0.3, 0.6, 1} {
		vsini := 12.0
		const steps = 200000
		h := 2 * vsini / steps
		integral := 0.0
		for i := 0; i < steps; i++ {
			integral += Profile(-vsini+(float64(i)+0.5)*h, vsini, e) * h
		}
		if math.Abs(integral-1) > 1e-6 {
			t.Fatalf("e=%v: integral = %v, want 1", e, integral)
		}
	}
	if Profile(1, 0, 0.6) != 0 {
		t.Fatal("expected zero profile for vsini = 0")
	}
}

func TestWithLimbDarkeningIgnoresInvalid(t *testing.T) {
	_, ref, _ := Rotational(31, 1, 8)
	_, got, _ := Rotational(31, 1, 8, WithLimbDarkening(-0.5), WithLimbDarkening(2), nil)
	for i := range ref {
		if ref[i] != got[i] {
			t.Fatalf("weights[%d] = %v, want default %v", i, got[i], ref[i])
		}
	}
}
