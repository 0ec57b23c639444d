package match

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-specmatch/dsp/core"
	"github.com/cwbudde/algo-specmatch/dsp/spline"
	"github.com/cwbudde/algo-specmatch/fit"
	"github.com/cwbudde/algo-specmatch/stats/residual"
)

// Model is a snapshot of the current trial model.
type Model struct {
	Flux      []float64
	Err       []float64
	Continuum []float64
}

// base is the state shared by both match variants: grid, target, continuum
// spline design, the current trial model and the best fit so far.
type base struct {
	w        []float64
	target   Spectrum
	knots    []float64
	lsq      *spline.LSQ
	mode     Mode
	settings fit.Settings
	logger   *slog.Logger

	// Current trial model, overwritten by every model construction.
	model     Spectrum
	continuum []float64
	valid     bool

	best    *fit.Parameters
	bestChi float64
	result  fit.Result
}

func newBase(w []float64, target Spectrum, o options) (base, error) {
	if err := checkGrid(w); err != nil {
		return base{}, err
	}
	if o.mode != ModeDefault && o.mode != ModeNormalized {
		return base{}, fmt.Errorf("match: unknown mode %v", o.mode)
	}
	if err := o.settings.Validate(); err != nil {
		return base{}, err
	}

	n := len(w)
	t, err := target.clone(n, "target")
	if err != nil {
		return base{}, err
	}

	knots, err := Knots(w)
	if err != nil {
		return base{}, err
	}
	lsq, err := spline.NewLSQ(w, knots)
	if err != nil {
		return base{}, fmt.Errorf("%w: %w", ErrDegenerateKnots, err)
	}

	b := base{
		w:         append([]float64(nil), w...),
		target:    t,
		knots:     knots,
		lsq:       lsq,
		mode:      o.mode,
		settings:  o.settings,
		logger:    o.logger,
		model:     Spectrum{Flux: make([]float64, n), Err: make([]float64, n)},
		continuum: make([]float64, n),
		bestChi:   math.NaN(),
	}
	if err := b.checkErrors(t.Err, "target"); err != nil {
		return base{}, err
	}
	return b, nil
}

// checkErrors rejects error vectors that normalized residuals cannot divide
// by. It accepts anything in the default mode.
func (b *base) checkErrors(e []float64, what string) error {
	if b.mode != ModeNormalized {
		return nil
	}
	for i, v := range e {
		if !(v > 0) || math.IsInf(v, 1) {
			return fmt.Errorf("%w: %s error %v at index %d", ErrInvalidErrors, what, v, i)
		}
	}
	return nil
}

// applyContinuum fits the continuum spline to target/model and scales the
// trial model flux and error by it.
func (b *base) applyContinuum() error {
	ratio := make([]float64, len(b.w))
	floats.DivTo(ratio, b.target.Flux, b.model.Flux)
	if !core.AllFinite(ratio) {
		return fmt.Errorf("%w: target/model ratio is not finite", ErrDegenerateModel)
	}

	s, err := b.lsq.Fit(ratio)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDegenerateModel, err)
	}
	copy(b.continuum, s.EvalGrid())

	vecmath.MulBlockInPlace(b.model.Flux, b.continuum)
	vecmath.MulBlockInPlace(b.model.Err, b.continuum)
	b.valid = true
	return nil
}

// residuals returns target - model for the current trial model, divided by
// the quadrature sum of both errors in normalized mode.
func (b *base) residuals() []float64 {
	r := make([]float64, len(b.w))
	floats.SubTo(r, b.target.Flux, b.model.Flux)
	if b.mode == ModeNormalized {
		for i := range r {
			r[i] /= math.Hypot(b.target.Err[i], b.model.Err[i])
		}
	}
	return r
}

// run minimizes obj from init, re-evaluates obj at the optimum and records
// score of that evaluation as the best chi-square. A non-converged fit still
// records its final state.
func (b *base) run(m fit.Minimizer, obj fit.Objective, init *fit.Parameters, score func(fit.Value) float64) (float64, error) {
	b.best, b.bestChi, b.result = nil, math.NaN(), fit.Result{}

	log := b.logger.With("method", m.Method().String())
	log.Debug("fit started", "params", init.String())

	res, err := m.Minimize(tolerant(obj, len(b.w)), init)
	if err != nil && !errors.Is(err, fit.ErrNonConvergence) {
		log.Debug("fit aborted", "err", err)
		return math.NaN(), err
	}

	v, verr := obj(res.Params)
	if verr != nil {
		return math.NaN(), errors.Join(err, verr)
	}
	b.best = res.Params
	b.bestChi = score(v)
	b.result = res

	if err != nil {
		log.Warn("fit did not converge",
			"status", res.Status.String(),
			"iterations", res.Iterations,
			"evaluations", res.Evaluations,
			"chi2", b.bestChi)
		return b.bestChi, err
	}

	log.Debug("fit converged",
		"params", res.Params.String(),
		"status", res.Status.String(),
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
		"chi2", b.bestChi)
	return b.bestChi, nil
}

// tolerant turns degenerate models into an infinite chi-square so that a
// minimizer steps back instead of aborting.
func tolerant(obj fit.Objective, n int) fit.Objective {
	return func(p *fit.Parameters) (fit.Value, error) {
		v, err := obj(p)
		if errors.Is(err, ErrDegenerateModel) {
			r := make([]float64, n)
			for i := range r {
				r[i] = math.Inf(1)
			}
			return fit.Value{Residuals: r, ChiSquare: math.Inf(1)}, nil
		}
		return v, err
	}
}

// BestResiduals returns the residuals of the most recently computed model.
// After BestFit that is the model at the best parameters.
func (b *base) BestResiduals() ([]float64, error) {
	if !b.valid {
		return nil, ErrInvalidState
	}
	return b.residuals(), nil
}

// BestChiSquare returns the chi-square of the last fit, or NaN before any
// fit.
func (b *base) BestChiSquare() float64 { return b.bestChi }

// BestParams returns a copy of the best parameters, or nil before any fit.
func (b *base) BestParams() *fit.Parameters {
	if b.best == nil {
		return nil
	}
	return b.best.Clone()
}

// Result returns the minimizer outcome of the last fit.
func (b *base) Result() fit.Result {
	r := b.result
	if r.Params != nil {
		r.Params = r.Params.Clone()
	}
	return r
}

// Model returns a copy of the current trial model.
func (b *base) Model() (Model, error) {
	if !b.valid {
		return Model{}, ErrInvalidState
	}
	return Model{
		Flux:      append([]float64(nil), b.model.Flux...),
		Err:       append([]float64(nil), b.model.Err...),
		Continuum: append([]float64(nil), b.continuum...),
	}, nil
}

// Knots returns the interior continuum knots.
func (b *base) Knots() []float64 { return append([]float64(nil), b.knots...) }

// Mode returns the residual weighting mode.
func (b *base) Mode() Mode { return b.mode }

// Quality summarizes the residuals of the current trial model.
func (b *base) Quality() (residual.Stats, error) {
	r, err := b.BestResiduals()
	if err != nil {
		return residual.Stats{}, err
	}
	return residual.Calculate(r), nil
}
