package match

import (
	"fmt"

	"github.com/cwbudde/algo-specmatch/dsp/conv"
	"github.com/cwbudde/algo-specmatch/dsp/core"
	"github.com/cwbudde/algo-specmatch/dsp/interp"
	"github.com/cwbudde/algo-specmatch/dsp/kernel"
)

const (
	// SpeedOfLight in km/s.
	SpeedOfLight = 2.99792e5

	// KernelSize is the number of taps of the rotational broadening kernel.
	KernelSize = 151

	// NumKnots is the number of interior continuum spline knots.
	NumKnots = 5

	// MinGridLength is the shortest grid a match accepts. The continuum
	// spline has NumKnots+4 coefficients.
	MinGridLength = 12
)

// Spectrum is a flux vector with its 1-sigma errors, sampled on a wavelength
// grid.
type Spectrum struct {
	Flux []float64
	Err  []float64
}

// clone validates s against a grid of length n and returns a deep copy.
func (s Spectrum) clone(n int, what string) (Spectrum, error) {
	if len(s.Flux) != n || len(s.Err) != n {
		return Spectrum{}, fmt.Errorf("%w: %s has %d flux and %d error samples, grid has %d",
			ErrShapeMismatch, what, len(s.Flux), len(s.Err), n)
	}
	return Spectrum{
		Flux: append([]float64(nil), s.Flux...),
		Err:  append([]float64(nil), s.Err...),
	}, nil
}

// checkGrid reports grids that are too short, not strictly increasing or
// not positive.
func checkGrid(w []float64) error {
	if len(w) < MinGridLength {
		return fmt.Errorf("%w: %d samples, need at least %d", ErrDegenerateKnots, len(w), MinGridLength)
	}
	if !core.AllFinite(w) || !core.StrictlyIncreasing(w) {
		return fmt.Errorf("%w: wavelengths must be finite and strictly increasing", ErrDegenerateKnots)
	}
	if w[0] <= 0 {
		return fmt.Errorf("%w: wavelengths must be positive, got %g", ErrDegenerateKnots, w[0])
	}
	return nil
}

// Knots returns the NumKnots interior knots that split w into NumKnots+1
// equal index intervals.
func Knots(w []float64) ([]float64, error) {
	if err := checkGrid(w); err != nil {
		return nil, err
	}
	interval := len(w) / (NumKnots + 1)
	knots := make([]float64, NumKnots)
	for i := range knots {
		knots[i] = w[interval*(i+1)]
	}
	return knots, nil
}

// VelocitySpacing returns the Doppler velocity step in km/s between the first
// two grid samples. Grids that are far from uniform in log-wavelength get a
// kernel that is only locally correct.
func VelocitySpacing(w []float64) float64 {
	return (w[1] - w[0]) / w[0] * SpeedOfLight
}

// Broaden convolves spectrum with a rotational broadening kernel for velocity
// (km/s) on grid w. The output has the same length as spectrum; the edges are
// mirror-extended. velocity == 0 returns a copy of spectrum up to rounding.
func Broaden(w []float64, velocity float64, spectrum []float64) ([]float64, error) {
	if len(w) < 2 {
		return nil, fmt.Errorf("%w: broadening needs at least 2 grid samples", ErrDegenerateKnots)
	}
	if len(spectrum) != len(w) {
		return nil, fmt.Errorf("%w: %d samples on a %d sample grid", ErrShapeMismatch, len(spectrum), len(w))
	}

	_, weights, err := kernel.Rotational(KernelSize, VelocitySpacing(w), velocity)
	if err != nil {
		return nil, fmt.Errorf("match: broadening kernel: %w", err)
	}

	out, err := conv.ConvolveSame(spectrum, weights, conv.BoundaryReflect)
	if err != nil {
		return nil, fmt.Errorf("match: broadening: %w", err)
	}
	return out, nil
}

// Resample moves s from grid from onto grid to with cubic Hermite
// interpolation of both flux and errors. to must lie inside the range of
// from. Matches expect all spectra on one grid, so references computed on a
// finer or shifted grid go through Resample first.
func Resample(from []float64, s Spectrum, to []float64) (Spectrum, error) {
	if len(s.Flux) != len(from) || len(s.Err) != len(from) {
		return Spectrum{}, fmt.Errorf("%w: %d flux and %d error samples on a %d sample grid",
			ErrShapeMismatch, len(s.Flux), len(s.Err), len(from))
	}
	flux, err := interp.Resample(from, s.Flux, to, interp.Hermite)
	if err != nil {
		return Spectrum{}, fmt.Errorf("match: resampling flux: %w", err)
	}
	errs, err := interp.Resample(from, s.Err, to, interp.Hermite)
	if err != nil {
		return Spectrum{}, fmt.Errorf("match: resampling errors: %w", err)
	}
	return Spectrum{Flux: flux, Err: errs}, nil
}
