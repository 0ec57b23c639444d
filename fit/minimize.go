package fit

import (
	"fmt"
	"strings"
)

// Value is one objective evaluation. Residuals feed least-squares
// minimizers; ChiSquare feeds direct-search minimizers. ChiSquare may carry
// penalty terms that are not part of Residuals.
type Value struct {
	Residuals []float64
	ChiSquare float64
}

// Objective evaluates a trial parameter set. Returning an error aborts the
// minimization.
type Objective func(p *Parameters) (Value, error)

// Method names a minimization strategy.
type Method int

const (
	// LevenbergMarquardt minimizes the sum of squared residuals.
	LevenbergMarquardt Method = iota
	// NelderMeadSimplex minimizes the scalar chi-square by direct search.
	NelderMeadSimplex
)

// String returns the short method name.
func (m Method) String() string {
	switch m {
	case LevenbergMarquardt:
		return "lm"
	case NelderMeadSimplex:
		return "nelder"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts "lm", "leastsq", "levenberg-marquardt", "nelder" and
// "nelder-mead", case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lm", "leastsq", "levenberg-marquardt":
		return LevenbergMarquardt, nil
	case "nelder", "nelder-mead":
		return NelderMeadSimplex, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	switch m {
	case LevenbergMarquardt, NelderMeadSimplex:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Status describes why a minimizer stopped.
type Status int

const (
	NotTerminated Status = iota
	FunctionConvergence
	StepConvergence
	GradientConvergence
	IterationLimit
	EvaluationLimit
	Failure
)

var statusNames = map[Status]string{
	NotTerminated:       "not terminated",
	FunctionConvergence: "function convergence",
	StepConvergence:     "step convergence",
	GradientConvergence: "gradient convergence",
	IterationLimit:      "iteration limit",
	EvaluationLimit:     "evaluation limit",
	Failure:             "failure",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Converged reports whether s is a successful termination.
func (s Status) Converged() bool {
	return s == FunctionConvergence || s == StepConvergence || s == GradientConvergence
}

// Result is the outcome of a minimization.
type Result struct {
	Params      *Parameters
	ChiSquare   float64
	Status      Status
	Method      Method
	Iterations  int
	Evaluations int
}

// Minimizer minimizes an objective starting from init. init is not modified.
type Minimizer interface {
	Method() Method
	Minimize(obj Objective, init *Parameters) (Result, error)
}

// New returns the minimizer for method m.
func New(m Method, s Settings) (Minimizer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch m {
	case LevenbergMarquardt:
		return &LeastSquares{Settings: s}, nil
	case NelderMeadSimplex:
		return &NelderMead{Settings: s}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}
}

// nonConvergence builds the error returned alongside a best-effort Result.
func nonConvergence(r Result) error {
	return fmt.Errorf("%w: %s after %d iterations, %d evaluations (%s, chi2=%g)",
		ErrNonConvergence, r.Status, r.Iterations, r.Evaluations, r.Method, r.ChiSquare)
}
