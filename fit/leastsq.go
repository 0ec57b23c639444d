package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

const (
	initialDamping = 1e-3
	minDamping     = 1e-12
	maxDamping     = 1e16
)

// LeastSquares minimizes the sum of squared residuals with the
// Levenberg-Marquardt method. The Jacobian is estimated by forward
// differences in internal coordinates.
type LeastSquares struct {
	Settings Settings
}

// Method returns [LevenbergMarquardt].
func (*LeastSquares) Method() Method { return LevenbergMarquardt }

// Minimize implements [Minimizer].
func (ls *LeastSquares) Minimize(obj Objective, init *Parameters) (Result, error) {
	s := ls.Settings
	p := init.Clone()
	u := p.internal()
	m := len(u)
	if m == 0 {
		return Result{Params: p, Method: LevenbergMarquardt}, ErrNoFreeParameters
	}
	maxIter, maxEval := s.iterations(m), s.evaluations(m)

	res := Result{Params: p, Method: LevenbergMarquardt, ChiSquare: math.NaN()}

	n := -1
	eval := func(x []float64) ([]float64, float64, error) {
		res.Evaluations++
		p.setInternal(x)
		v, err := obj(p)
		if err != nil {
			return nil, 0, err
		}
		if n >= 0 && len(v.Residuals) != n {
			return nil, 0, fmt.Errorf("%w: %d != %d", ErrResidualsResized, len(v.Residuals), n)
		}
		r := append([]float64(nil), v.Residuals...)
		chi := floats.Dot(r, r)
		if !core.IsFinite(chi) {
			chi = math.Inf(1)
		}
		return r, chi, nil
	}

	r, chi, err := eval(u)
	if err != nil {
		return res, err
	}
	n = len(r)
	if n == 0 {
		return res, ErrEmptyResiduals
	}
	if math.IsInf(chi, 1) {
		res.Status = Failure
		return res, fmt.Errorf("%w: non-finite residuals at the starting point", ErrNonConvergence)
	}

	jac := mat.NewDense(n, m, nil)
	jtj := mat.NewSymDense(m, nil)
	damped := mat.NewSymDense(m, nil)
	var grad, step, jstep mat.VecDense
	var chol mat.Cholesky
	trial := make([]float64, m)
	lambda := initialDamping

	finish := func(st Status) (Result, error) {
		res.Status = st
		res.ChiSquare = chi
		p.setInternal(u)
		if !st.Converged() {
			return res, nonConvergence(res)
		}
		return res, nil
	}

	for res.Iterations < maxIter {
		res.Iterations++
		if chi == 0 {
			return finish(FunctionConvergence)
		}

		if err := ls.jacobian(jac, u, r, eval); err != nil {
			return res, err
		}
		if res.Evaluations >= maxEval {
			return finish(EvaluationLimit)
		}

		jtj.SymOuterK(1, jac.T())
		grad.MulVec(jac.T(), mat.NewVecDense(n, r))

		if gradientCosine(jac, grad.RawVector().Data, math.Sqrt(chi)) <= s.GTol {
			return finish(GradientConvergence)
		}

		for {
			for i := 0; i < m; i++ {
				for j := i; j < m; j++ {
					damped.SetSym(i, j, jtj.At(i, j))
				}
				d := jtj.At(i, i)
				if d == 0 {
					d = 1
				}
				damped.SetSym(i, i, jtj.At(i, i)+lambda*d)
			}

			if ok := chol.Factorize(damped); !ok {
				lambda *= 10
				if lambda > maxDamping {
					return finish(Failure)
				}
				continue
			}

			// Solve (JtJ + lambda*D) step = -JtR.
			if err := chol.SolveVecTo(&step, &grad); err != nil {
				return res, fmt.Errorf("fit: damped normal equations: %w", err)
			}
			step.ScaleVec(-1, &step)
			floats.AddTo(trial, u, step.RawVector().Data)

			rt, chit, err := eval(trial)
			if err != nil {
				return res, err
			}

			small := floats.Norm(step.RawVector().Data, 2) <= s.XTol*(floats.Norm(u, 2)+s.XTol)

			if chit < chi {
				// Predicted reduction from the linear model |r + J step|^2.
				jstep.MulVec(jac, &step)
				pred := -(2*mat.Dot(&grad, &step) + mat.Dot(&jstep, &jstep)) / chi
				actual := (chi - chit) / chi

				copy(u, trial)
				r, chi = rt, chit
				lambda = math.Max(lambda/10, minDamping)

				switch {
				case actual <= s.FTol && pred <= s.FTol:
					return finish(FunctionConvergence)
				case small:
					return finish(StepConvergence)
				case res.Evaluations >= maxEval:
					return finish(EvaluationLimit)
				}
				break
			}

			if res.Evaluations >= maxEval {
				return finish(EvaluationLimit)
			}
			if small {
				return finish(StepConvergence)
			}
			lambda *= 10
			if lambda > maxDamping {
				return finish(StepConvergence)
			}
		}
	}

	return finish(IterationLimit)
}

// jacobian fills jac with forward differences of the residuals around u.
// A step that lands on non-finite residuals is retried backwards.
func (ls *LeastSquares) jacobian(jac *mat.Dense, u, r []float64, eval func([]float64) ([]float64, float64, error)) error {
	for j := range u {
		h := ls.Settings.Epsilon * math.Abs(u[j])
		if h == 0 {
			h = ls.Settings.Epsilon
		}

		orig := u[j]
		u[j] = orig + h
		rh, chi, err := eval(u)
		if err == nil && math.IsInf(chi, 1) {
			h = -h
			u[j] = orig + h
			rh, chi, err = eval(u)
		}
		u[j] = orig
		if err != nil {
			return err
		}
		if math.IsInf(chi, 1) {
			return fmt.Errorf("%w: non-finite residuals around the current point", ErrNonConvergence)
		}

		for i := range rh {
			jac.Set(i, j, (rh[i]-r[i])/h)
		}
	}
	return nil
}

// gradientCosine returns the largest |cos| of the angle between the residual
// vector and any non-zero Jacobian column. Zero columns are skipped.
func gradientCosine(jac *mat.Dense, grad []float64, rnorm float64) float64 {
	if rnorm == 0 {
		return 0
	}
	worst := 0.0
	for j, g := range grad {
		col := mat.Col(nil, j, jac)
		norm := floats.Norm(col, 2)
		if norm == 0 {
			continue
		}
		worst = math.Max(worst, math.Abs(g)/(norm*rnorm))
	}
	return worst
}
