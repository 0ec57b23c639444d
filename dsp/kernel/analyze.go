package kernel

import "math"

// Analysis holds numerically computed properties of a broadening kernel.
type Analysis struct {
	// Sum is the sum of weights; 1 for kernels from [Rotational].
	Sum float64
	// Centroid is the weighted mean velocity in km/s.
	Centroid float64
	// RMSWidth is the weighted standard deviation of velocity in km/s.
	RMSWidth float64
	// Support is the number of taps with non-zero weight.
	Support int
	// Peak is the largest weight.
	Peak float64
	// FWHM is the full width at half maximum in km/s, linearly interpolated
	// between taps. Zero when the peak sits on an edge tap.
	FWHM float64
}

// Analyze computes [Analysis] for a kernel given its tap velocities and weights.
// Mismatched or empty input yields a zero Analysis.
func Analyze(velocities, weights []float64) Analysis {
	if len(velocities) == 0 || len(velocities) != len(weights) {
		return Analysis{}
	}

	var a Analysis
	peakIdx := 0
	for i, w := range weights {
		a.Sum += w
		a.Centroid += w * velocities[i]
		if w != 0 {
			a.Support++
		}
		if w > a.Peak {
			a.Peak = w
			peakIdx = i
		}
	}
	if a.Sum == 0 {
		return Analysis{}
	}
	a.Centroid /= a.Sum

	variance := 0.0
	for i, w := range weights {
		d := velocities[i] - a.Centroid
		variance += w * d * d
	}
	a.RMSWidth = math.Sqrt(variance / a.Sum)
	a.FWHM = fwhm(velocities, weights, peakIdx, a.Peak)

	return a
}

func fwhm(velocities, weights []float64, peakIdx int, peak float64) float64 {
	if peakIdx == 0 || peakIdx == len(weights)-1 {
		return 0
	}
	half := peak / 2

	left := math.NaN()
	for i := peakIdx; i > 0; i-- {
		if weights[i-1] < half {
			left = crossing(velocities[i-1], velocities[i], weights[i-1], weights[i], half)
			break
		}
	}
	right := math.NaN()
	for i := peakIdx; i < len(weights)-1; i++ {
		if weights[i+1] < half {
			right = crossing(velocities[i], velocities[i+1], weights[i], weights[i+1], half)
			break
		}
	}
	if math.IsNaN(left) || math.IsNaN(right) {
		return 0
	}
	return right - left
}

// crossing returns the velocity at which the line through (v0, w0) and
// (v1, w1) reaches level.
func crossing(v0, v1, w0, w1, level float64) float64 {
	if w1 == w0 {
		return (v0 + v1) / 2
	}
	return v0 + (level-w0)*(v1-v0)/(w1-w0)
}
