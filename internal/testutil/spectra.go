package testutil

import "math"

// Line is a Gaussian absorption line.
type Line struct {
	Center float64 // wavelength
	Depth  float64 // fraction of the continuum removed at the center
	Sigma  float64 // Gaussian width in wavelength units
}

// AbsorptionSpectrum returns a unit-continuum spectrum with the given lines,
// sampled at wavelengths w.
func AbsorptionSpectrum(w []float64, lines []Line) []float64 {
	out := Ones(len(w))
	for i, x := range w {
		for _, l := range lines {
			d := (x - l.Center) / l.Sigma
			out[i] -= l.Depth * math.Exp(-0.5*d*d)
		}
	}
	return out
}

// LineList returns a deterministic set of n lines spread across [lo, hi] with
// depths between 0.2 and 0.7 and widths of a few thousandths of the range.
func LineList(lo, hi float64, n int) []Line {
	lines := make([]Line, n)
	span := hi - lo
	for i := range lines {
		frac := (float64(i) + 0.5) / float64(n)
		// Jitter positions and depths with a fixed irrational stride.
		jitter := math.Mod(float64(i)*0.618033988749895, 1)
		lines[i] = Line{
			Center: lo + span*(frac+0.3*(jitter-0.5)/float64(n)),
			Depth:  0.2 + 0.5*jitter,
			Sigma:  span * (0.002 + 0.003*jitter),
		}
	}
	return lines
}

// Scale multiplies s element-wise by f and returns a new slice.
func Scale(s, f []float64) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i] * f[i]
	}
	return out
}
