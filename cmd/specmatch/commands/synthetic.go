package commands

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-specmatch/match"
)

// synthetic describes a generated unit-continuum absorption spectrum.
type synthetic struct {
	lo, hi float64
	points int
	lines  int
	errBar float64
}

func (s synthetic) grid() []float64 {
	w := make([]float64, s.points)
	step := (s.hi - s.lo) / float64(s.points-1)
	for i := range w {
		w[i] = s.lo + step*float64(i)
	}
	w[len(w)-1] = s.hi
	return w
}

// spectrum returns Gaussian absorption lines at random positions with a
// constant error bar. Lines combine multiplicatively, so blends stay in
// (0, 1]. Equal seeds give equal spectra.
func (s synthetic) spectrum(w []float64, seed int64) match.Spectrum {
	rng := rand.New(rand.NewSource(seed))
	span := s.hi - s.lo

	flux := make([]float64, len(w))
	errs := make([]float64, len(w))
	for i := range flux {
		flux[i] = 1
		errs[i] = s.errBar
	}

	for range s.lines {
		center := s.lo + span*rng.Float64()
		depth := 0.2 + 0.5*rng.Float64()
		sigma := span * (0.002 + 0.003*rng.Float64())
		for i, x := range w {
			d := (x - center) / sigma
			flux[i] *= 1 - depth*math.Exp(-0.5*d*d)
		}
	}

	return match.Spectrum{Flux: flux, Err: errs}
}

// addNoise perturbs flux by Gaussian noise of the given sigma.
func addNoise(flux []float64, sigma float64, seed int64) {
	if sigma <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	for i := range flux {
		flux[i] += sigma * rng.NormFloat64()
	}
}
