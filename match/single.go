package match

import (
	"math"

	"github.com/cwbudde/algo-specmatch/fit"
	"github.com/cwbudde/algo-specmatch/stats/residual"
)

// ParamVsini names the rotational velocity parameter (km/s).
const ParamVsini = "vsini"

// Default vsini start value and upper bound in km/s.
const (
	DefaultVsini = 1.0
	MaxVsini     = 10.0
)

// SingleMatch fits a target spectrum with one broadened,
// continuum-corrected reference spectrum.
type SingleMatch struct {
	base
	reference Spectrum
	minimizer fit.Minimizer
}

// NewSingleMatch validates and copies the inputs, places the continuum knots
// and prepares the spline design on grid w.
func NewSingleMatch(w []float64, target, reference Spectrum, opts ...Option) (*SingleMatch, error) {
	o := applyOptions(opts)

	b, err := newBase(w, target, o)
	if err != nil {
		return nil, err
	}
	ref, err := reference.clone(len(w), "reference")
	if err != nil {
		return nil, err
	}
	if err := b.checkErrors(ref.Err, "reference"); err != nil {
		return nil, err
	}
	minimizer, err := fit.New(o.method, o.settings)
	if err != nil {
		return nil, err
	}

	return &SingleMatch{base: b, reference: ref, minimizer: minimizer}, nil
}

// Method returns the minimizer used by BestFit.
func (m *SingleMatch) Method() fit.Method { return m.minimizer.Method() }

// CreateModel broadens the reference flux and error by the vsini in p and
// scales both by the continuum solved against the target.
func (m *SingleMatch) CreateModel(p *fit.Parameters) error {
	m.valid = false

	vsini, err := p.Value(ParamVsini)
	if err != nil {
		return err
	}

	flux, err := Broaden(m.w, vsini, m.reference.Flux)
	if err != nil {
		return err
	}
	errs, err := Broaden(m.w, vsini, m.reference.Err)
	if err != nil {
		return err
	}
	copy(m.model.Flux, flux)
	copy(m.model.Err, errs)

	return m.applyContinuum()
}

// Objective builds the model for p and returns its residuals and their sum of
// squares.
func (m *SingleMatch) Objective(p *fit.Parameters) (fit.Value, error) {
	if err := m.CreateModel(p); err != nil {
		return fit.Value{}, err
	}
	r := m.residuals()
	return fit.Value{Residuals: r, ChiSquare: residual.ChiSquare(r)}, nil
}

// BestFit minimizes the objective over vsini and returns the best
// chi-square, recomputed as the sum of squared residuals at the best
// parameters. params may be nil; a missing vsini starts at [DefaultVsini]
// bounded to [0, MaxVsini]. On non-convergence the final state is kept and
// the error wraps [fit.ErrNonConvergence].
func (m *SingleMatch) BestFit(params *fit.Parameters) (float64, error) {
	init := fit.NewParameters()
	if params != nil {
		init = params.Clone()
	}
	if !init.Has(ParamVsini) {
		if err := init.Add(ParamVsini, DefaultVsini, 0, MaxVsini); err != nil {
			return math.NaN(), err
		}
	}

	return m.run(m.minimizer, m.Objective, init, func(v fit.Value) float64 {
		return residual.ChiSquare(v.Residuals)
	})
}
