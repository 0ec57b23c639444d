package match

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-specmatch/fit"
	"github.com/cwbudde/algo-specmatch/stats/residual"
)

// ParamNumRefs names the fixed parameter holding the number of references.
const ParamNumRefs = "num_refs"

// PriorWidth is the width of the Gaussian prior that pulls the coefficient
// sum towards one.
const PriorWidth = 1e-3

// CoeffName returns the parameter name of the i-th coefficient.
func CoeffName(i int) string { return fmt.Sprintf("coeff_%d", i) }

// LincombMatch fits a target spectrum with a non-negative linear combination
// of references, each broadened once by its own fixed vsini.
type LincombMatch struct {
	base
	refs      []Spectrum
	vsini     []float64
	minimizer fit.Minimizer
}

// NewLincombMatch validates and copies the inputs and broadens refs[i] by
// vsini[i]. The fit always runs Nelder-Mead; a different [WithOptimizer]
// choice is logged and ignored.
func NewLincombMatch(w []float64, target Spectrum, refs []Spectrum, vsini []float64, opts ...Option) (*LincombMatch, error) {
	o := applyOptions(opts)

	b, err := newBase(w, target, o)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: no reference spectra", ErrShapeMismatch)
	}
	if len(vsini) != len(refs) {
		return nil, fmt.Errorf("%w: %d references, %d vsini values", ErrShapeMismatch, len(refs), len(vsini))
	}

	if o.methodSet && o.method != fit.NelderMeadSimplex {
		b.logger.Warn("linear combination fits always use nelder-mead, optimizer option ignored",
			"requested", o.method.String())
	}
	minimizer, err := fit.New(fit.NelderMeadSimplex, o.settings)
	if err != nil {
		return nil, err
	}

	broadened := make([]Spectrum, len(refs))
	for i, ref := range refs {
		c, err := ref.clone(len(w), fmt.Sprintf("reference %d", i))
		if err != nil {
			return nil, err
		}
		if err := b.checkErrors(c.Err, fmt.Sprintf("reference %d", i)); err != nil {
			return nil, err
		}
		if c.Flux, err = Broaden(w, vsini[i], c.Flux); err != nil {
			return nil, err
		}
		if c.Err, err = Broaden(w, vsini[i], c.Err); err != nil {
			return nil, err
		}
		broadened[i] = c
	}

	return &LincombMatch{
		base:      b,
		refs:      broadened,
		vsini:     append([]float64(nil), vsini...),
		minimizer: minimizer,
	}, nil
}

// NumRefs returns the number of references.
func (m *LincombMatch) NumRefs() int { return len(m.refs) }

// Vsini returns a copy of the per-reference broadening velocities.
func (m *LincombMatch) Vsini() []float64 { return append([]float64(nil), m.vsini...) }

// Method returns [fit.NelderMeadSimplex].
func (m *LincombMatch) Method() fit.Method { return m.minimizer.Method() }

// CreateModel sums the broadened references weighted by the coefficients in
// p and scales the sum by the continuum solved against the target.
func (m *LincombMatch) CreateModel(p *fit.Parameters) error {
	m.valid = false

	coeffs, err := m.coefficients(p)
	if err != nil {
		return err
	}

	clear(m.model.Flux)
	clear(m.model.Err)
	for i, c := range coeffs {
		floats.AddScaled(m.model.Flux, c, m.refs[i].Flux)
		floats.AddScaled(m.model.Err, c, m.refs[i].Err)
	}

	return m.applyContinuum()
}

// Objective builds the model for p and returns its residuals. ChiSquare is
// the sum of squared residuals plus the coefficient-sum prior.
func (m *LincombMatch) Objective(p *fit.Parameters) (fit.Value, error) {
	if err := m.CreateModel(p); err != nil {
		return fit.Value{}, err
	}
	coeffs, err := m.coefficients(p)
	if err != nil {
		return fit.Value{}, err
	}

	r := m.residuals()
	return fit.Value{Residuals: r, ChiSquare: residual.ChiSquare(r) + prior(coeffs)}, nil
}

// BestFit minimizes the objective over the coefficients with Nelder-Mead and
// returns the objective value at the best parameters, prior included. params
// may be nil; missing coefficients start at 1/NumRefs bounded to [0, 1].
func (m *LincombMatch) BestFit(params *fit.Parameters) (float64, error) {
	init := fit.NewParameters()
	if params != nil {
		init = params.Clone()
	}

	n := len(m.refs)
	if err := init.AddFixed(ParamNumRefs, float64(n)); err != nil {
		return math.NaN(), err
	}
	for i := range n {
		if init.Has(CoeffName(i)) {
			continue
		}
		if err := init.Add(CoeffName(i), 1/float64(n), 0, 1); err != nil {
			return math.NaN(), err
		}
	}

	return m.run(m.minimizer, m.Objective, init, func(v fit.Value) float64 {
		return v.ChiSquare
	})
}

// Coefficients returns the best-fit coefficients, or nil before any fit.
func (m *LincombMatch) Coefficients() []float64 {
	if m.best == nil {
		return nil
	}
	coeffs, err := m.coefficients(m.best)
	if err != nil {
		return nil
	}
	return coeffs
}

func (m *LincombMatch) coefficients(p *fit.Parameters) ([]float64, error) {
	coeffs := make([]float64, len(m.refs))
	for i := range coeffs {
		v, err := p.Value(CoeffName(i))
		if err != nil {
			return nil, err
		}
		coeffs[i] = v
	}
	return coeffs, nil
}

// prior is the Gaussian penalty on the coefficient sum deviating from one.
func prior(coeffs []float64) float64 {
	d := floats.Sum(coeffs) - 1
	return d * d / (2 * PriorWidth * PriorWidth)
}
