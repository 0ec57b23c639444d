package fit

import (
	"fmt"
	"math"
)

// Settings controls stopping criteria shared by both minimizers.
type Settings struct {
	// MaxIterations bounds outer iterations. Zero selects 1000 per free parameter.
	MaxIterations int `yaml:"max_iterations"`
	// MaxEvaluations bounds objective calls. Zero selects 2000*(free+1).
	MaxEvaluations int `yaml:"max_evaluations"`
	// FTol is the relative chi-square reduction below which a fit has converged.
	FTol float64 `yaml:"ftol"`
	// XTol is the relative internal step size below which a fit has converged.
	XTol float64 `yaml:"xtol"`
	// GTol is the cosine between residuals and Jacobian columns below which
	// Levenberg-Marquardt has converged.
	GTol float64 `yaml:"gtol"`
	// Epsilon is the relative forward-difference step for the Jacobian.
	Epsilon float64 `yaml:"epsilon"`
	// SimplexSize is the edge length of the initial Nelder-Mead simplex in
	// internal coordinates.
	SimplexSize float64 `yaml:"simplex_size"`
}

// DefaultSettings returns tolerances in line with MINPACK's lmdif defaults.
func DefaultSettings() Settings {
	return Settings{
		FTol:        1.5e-8,
		XTol:        1.5e-8,
		GTol:        0,
		Epsilon:     math.Sqrt(2.220446049250313e-16),
		SimplexSize: 0.05,
	}
}

// Validate reports settings that no minimizer can honor.
func (s Settings) Validate() error {
	switch {
	case s.MaxIterations < 0:
		return fmt.Errorf("%w: max_iterations %d < 0", ErrInvalidSettings, s.MaxIterations)
	case s.MaxEvaluations < 0:
		return fmt.Errorf("%w: max_evaluations %d < 0", ErrInvalidSettings, s.MaxEvaluations)
	case !(s.FTol >= 0), !(s.XTol >= 0), !(s.GTol >= 0):
		return fmt.Errorf("%w: tolerances must be >= 0", ErrInvalidSettings)
	case !(s.Epsilon > 0):
		return fmt.Errorf("%w: epsilon must be > 0", ErrInvalidSettings)
	case !(s.SimplexSize > 0):
		return fmt.Errorf("%w: simplex_size must be > 0", ErrInvalidSettings)
	}
	return nil
}

func (s Settings) iterations(free int) int {
	if s.MaxIterations > 0 {
		return s.MaxIterations
	}
	return 1000 * free
}

func (s Settings) evaluations(free int) int {
	if s.MaxEvaluations > 0 {
		return s.MaxEvaluations
	}
	return 2000 * (free + 1)
}
