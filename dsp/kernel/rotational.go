package kernel

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

// DefaultLimbDarkening is the linear limb-darkening coefficient used when no
// [WithLimbDarkening] option is given.
const DefaultLimbDarkening = 0.6

// Option configures kernel generation.
type Option func(*config)

type config struct {
	limbDarkening float64
}

func defaultConfig() config {
	return config{limbDarkening: DefaultLimbDarkening}
}

// WithLimbDarkening sets the linear limb-darkening coefficient.
// Values outside [0, 1] are ignored.
func WithLimbDarkening(e float64) Option {
	return func(c *config) {
		if e >= 0 && e <= 1 {
			c.limbDarkening = e
		}
	}
}

// Rotational returns an n-tap rotational broadening kernel on a velocity grid
// with spacing dv (km/s) for projected rotational velocity vsini (km/s).
//
// velocities[k] = (k - n/2) * dv, so the center tap sits at zero velocity.
// The weights sum to one. vsini == 0 returns a unit impulse.
func Rotational(n int, dv, vsini float64, opts ...Option) (velocities, weights []float64, err error) {
	if n <= 0 || n%2 == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}
	if !core.IsFinite(dv) || dv <= 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, dv)
	}
	if !core.IsFinite(vsini) || vsini < 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidVelocity, vsini)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	half := n / 2
	velocities = make([]float64, n)
	weights = make([]float64, n)
	for k := range velocities {
		velocities[k] = float64(k-half) * dv
	}

	if vsini == 0 {
		weights[half] = 1
		return velocities, weights, nil
	}

	sum := 0.0
	for k, v := range velocities {
		lo := core.Clamp((v-dv/2)/vsini, -1, 1)
		hi := core.Clamp((v+dv/2)/vsini, -1, 1)
		if hi <= lo {
			continue
		}
		weights[k] = cumulative(hi, cfg.limbDarkening) - cumulative(lo, cfg.limbDarkening)
		sum += weights[k]
	}

	// Profiles wider than the kernel are truncated; renormalize what is left.
	for k := range weights {
		weights[k] /= sum
	}

	return velocities, weights, nil
}

// cumulative is the antiderivative of the unnormalized rotation profile
// 2(1-e)sqrt(1-x^2) + (pi e/2)(1-x^2) on [-1, 1]. Its total over [-1, 1]
// is pi(1 - e/3).
func cumulative(x, e float64) float64 {
	s := math.Sqrt(math.Max(0, 1-x*x))
	return (1-e)*(x*s+math.Asin(x)) + math.Pi*e/2*(x-x*x*x/3)
}

// Profile evaluates the normalized continuous rotation profile at velocity v
// (km/s). The integral over v is one.
func Profile(v, vsini, limbDarkening float64) float64 {
	if vsini <= 0 {
		return 0
	}
	x := v / vsini
	if x <= -1 || x >= 1 {
		return 0
	}
	e := limbDarkening
	u := 1 - x*x
	return (2*(1-e)*math.Sqrt(u) + math.Pi*e/2*u) / (math.Pi * vsini * (1 - e/3))
}
