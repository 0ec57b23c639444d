package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// stallIterations is the number of iterations per simplex vertex without a
// significant decrease after which the search stops.
const stallIterations = 25

// NelderMead minimizes the scalar chi-square with the Nelder-Mead simplex
// method from gonum/optimize. Objective evaluations are strictly sequential.
type NelderMead struct {
	Settings Settings
}

// Method returns [NelderMeadSimplex].
func (*NelderMead) Method() Method { return NelderMeadSimplex }

// Minimize implements [Minimizer].
func (nm *NelderMead) Minimize(obj Objective, init *Parameters) (Result, error) {
	s := nm.Settings
	p := init.Clone()
	u0 := p.internal()
	m := len(u0)
	res := Result{Params: p, Method: NelderMeadSimplex, ChiSquare: math.NaN()}
	if m == 0 {
		return res, ErrNoFreeParameters
	}

	var objErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if objErr != nil {
				return math.Inf(1)
			}
			p.setInternal(x)
			v, err := obj(p)
			if err != nil {
				objErr = err
				return math.Inf(1)
			}
			if math.IsNaN(v.ChiSquare) {
				return math.Inf(1)
			}
			return v.ChiSquare
		},
	}

	// A decrease counts only if it exceeds FTol*(|f| + |f0|).
	f0 := problem.Func(u0)
	if objErr != nil {
		res.Status = Failure
		return res, objErr
	}
	absolute := 0.0
	if !math.IsInf(f0, 0) {
		absolute = s.FTol * math.Abs(f0)
	}

	settings := &optimize.Settings{
		MajorIterations: s.iterations(m),
		FuncEvaluations: s.evaluations(m),
		Concurrent:      1,
		Converger: &optimize.FunctionConverge{
			Absolute:   absolute,
			Relative:   s.FTol,
			Iterations: stallIterations * (m + 1),
		},
	}

	out, err := optimize.Minimize(problem, u0, settings, &optimize.NelderMead{SimplexSize: s.SimplexSize})
	if objErr != nil {
		res.Status = Failure
		return res, objErr
	}
	if out != nil {
		p.setInternal(out.X)
		res.ChiSquare = out.F
		res.Iterations = out.MajorIterations
		res.Evaluations = out.FuncEvaluations + 1
		res.Status = fromOptimizeStatus(out.Status)
	} else {
		p.setInternal(u0)
		res.Status = Failure
	}

	if err != nil || !res.Status.Converged() {
		if err != nil {
			return res, fmt.Errorf("%w (%v)", nonConvergence(res), err)
		}
		return res, nonConvergence(res)
	}
	return res, nil
}

func fromOptimizeStatus(st optimize.Status) Status {
	switch st {
	case optimize.FunctionConvergence, optimize.FunctionThreshold, optimize.Success, optimize.MethodConverge:
		return FunctionConvergence
	case optimize.StepConvergence:
		return StepConvergence
	case optimize.GradientThreshold:
		return GradientConvergence
	case optimize.IterationLimit:
		return IterationLimit
	case optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
		return EvaluationLimit
	case optimize.NotTerminated:
		return NotTerminated
	default:
		return Failure
	}
}
