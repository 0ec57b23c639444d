package residual

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

// Stats holds summary statistics of a residual vector.
type Stats struct {
	Length      int
	ChiSquare   float64 // sum of squares
	Mean        float64
	RMS         float64
	Max         float64
	MaxPos      int
	Min         float64
	MinPos      int
	Peak        float64 // max(|max|, |min|)
	SignChanges int
	Variance    float64
	Skewness    float64
	Kurtosis    float64
}

// Calculate computes all residual statistics in a single pass using
// Welford's online algorithm for the higher-order moments.
// Empty input returns the zero Stats.
func Calculate(r []float64) Stats {
	n := len(r)
	if n == 0 {
		return Stats{}
	}

	var (
		mean float64
		m2   float64
		m3   float64
		m4   float64
	)

	var (
		sumSq       float64
		maxVal      = r[0]
		maxPos      int
		minVal      = r[0]
		minPos      int
		signChanges int
	)

	for i, x := range r {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}

		if i > 0 && r[i-1]*x < 0 {
			signChanges++
		}
	}

	nf := float64(n)
	variance := m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Length:      n,
		ChiSquare:   sumSq,
		Mean:        mean,
		RMS:         math.Sqrt(sumSq / nf),
		Max:         maxVal,
		MaxPos:      maxPos,
		Min:         minVal,
		MinPos:      minPos,
		Peak:        math.Max(math.Abs(maxVal), math.Abs(minVal)),
		SignChanges: signChanges,
		Variance:    variance,
		Skewness:    skewness,
		Kurtosis:    kurtosis,
	}
}

// ChiSquare returns the sum of squared residuals.
func ChiSquare(r []float64) float64 {
	if len(r) == 0 {
		return 0
	}
	sq := make([]float64, len(r))
	vecmath.MulBlock(sq, r, r)
	return floats.Sum(sq)
}

// RMS returns the root-mean-square of the residuals.
func RMS(r []float64) float64 {
	if len(r) == 0 {
		return 0
	}
	return math.Sqrt(ChiSquare(r) / float64(len(r)))
}

// ReducedChiSquare returns chi2 per degree of freedom for n residuals and
// nFree fitted parameters. It is NaN when there are no degrees of freedom.
func ReducedChiSquare(chi2 float64, n, nFree int) float64 {
	dof := n - nFree
	if dof <= 0 {
		return math.NaN()
	}
	return chi2 / float64(dof)
}

// SignChanges counts consecutive residual pairs of opposite sign. A good fit
// to noisy data changes sign about every other sample; long runs of one sign
// point at structure the model does not capture.
func SignChanges(r []float64) int {
	count := 0
	for i := 1; i < len(r); i++ {
		if r[i-1]*r[i] < 0 {
			count++
		}
	}
	return count
}

// Moments returns the mean, population variance, skewness, and excess kurtosis
// of the residuals using Welford's online algorithm.
func Moments(r []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(r)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range r {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}
