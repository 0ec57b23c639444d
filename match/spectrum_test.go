package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-specmatch/internal/testutil"
)

func TestKnots(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 1000)
	knots, err := Knots(w)
	require.NoError(t, err)
	require.Len(t, knots, NumKnots)

	for i, k := range knots {
		assert.Equal(t, w[166*(i+1)], k)
		assert.Greater(t, k, w[0])
		assert.Less(t, k, w[len(w)-1])
	}
}

func TestKnotsShortestGrid(t *testing.T) {
	w := testutil.Linspace(1, 12, MinGridLength)
	knots, err := Knots(w)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5, 7, 9, 11}, knots)
}

func TestKnotsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		w    []float64
	}{
		{"too short", testutil.Linspace(5000, 5010, MinGridLength-1)},
		{"empty", nil},
		{"repeated sample", append(testutil.Linspace(5000, 5010, 20), 5010)},
		{"decreasing", testutil.Linspace(5010, 5000, 20)},
		{"non-positive", testutil.Linspace(-5, 5, 20)},
		{"nan", append([]float64{math.NaN()}, testutil.Linspace(5000, 5010, 20)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Knots(tt.w)
			assert.ErrorIs(t, err, ErrDegenerateKnots)
		})
	}
}

func TestVelocitySpacing(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 1000)
	want := (10.0 / 999) / 5000 * SpeedOfLight
	assert.InDelta(t, want, VelocitySpacing(w), 1e-9)
}

func TestBroadenZeroIsIdentity(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 1000)
	flux := testutil.AbsorptionSpectrum(w, testutil.LineList(5000, 5010, 12))

	got, err := Broaden(w, 0, flux)
	require.NoError(t, err)
	require.Len(t, got, len(flux))

	testutil.RequireSliceNearlyEqual(t, got, flux, 1e-12)
	assert.InDelta(t, floats.Sum(flux), floats.Sum(got), 1e-9)
}

func TestBroadenSmoothsLines(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 1000)
	flux := testutil.AbsorptionSpectrum(w, testutil.LineList(5000, 5010, 12))

	narrow, err := Broaden(w, 2, flux)
	require.NoError(t, err)
	wide, err := Broaden(w, 8, flux)
	require.NoError(t, err)

	testutil.RequireFinite(t, wide)
	assert.Greater(t, floats.Min(narrow), floats.Min(flux))
	assert.Greater(t, floats.Min(wide), floats.Min(narrow))
	assert.LessOrEqual(t, floats.Max(wide), 1+1e-12)

	// Away from the edges broadening only moves flux around.
	mid := len(w) / 2
	assert.InDelta(t, floats.Sum(flux[100:mid]), floats.Sum(wide[100:mid]), 0.5)
}

func TestBroadenConstant(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 300)
	flux := testutil.DC(0.8, len(w))

	got, err := Broaden(w, 7.5, flux)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, got, flux, 1e-12)
}

func TestBroadenErrors(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 100)

	_, err := Broaden(w, 1, make([]float64, 99))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Broaden(w[:1], 1, []float64{1})
	assert.ErrorIs(t, err, ErrDegenerateKnots)

	_, err = Broaden(w, -1, make([]float64, 100))
	assert.Error(t, err)
}

func TestResampleFromFinerGrid(t *testing.T) {
	lines := testutil.LineList(5000, 5010, 12)
	fine := testutil.Linspace(5000, 5010, 4000)
	w := testutil.Linspace(5000, 5010, 1000)

	src := Spectrum{Flux: testutil.AbsorptionSpectrum(fine, lines), Err: testutil.DC(0.01, len(fine))}
	got, err := Resample(fine, src, w)
	require.NoError(t, err)
	require.Len(t, got.Flux, len(w))

	chi2 := testutil.RequireWithinErrors(t, got.Flux, testutil.AbsorptionSpectrum(w, lines), got.Err, 0.2)
	assert.Less(t, chi2, 1.0)
	testutil.RequireSliceNearlyEqual(t, got.Err, testutil.DC(0.01, len(w)), 1e-12)
}

func TestResampleErrors(t *testing.T) {
	w := testutil.Linspace(5000, 5010, 100)
	s := Spectrum{Flux: testutil.Ones(100), Err: testutil.Ones(100)}

	_, err := Resample(w, Spectrum{Flux: testutil.Ones(99), Err: testutil.Ones(100)}, w)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Resample(w, s, []float64{4999})
	assert.Error(t, err)
}
