package fit

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

// Parameter is a named value with inclusive bounds. Min and Max may be
// infinite. Parameters with Vary == false are held fixed by minimizers.
type Parameter struct {
	Name  string
	Value float64
	Min   float64
	Max   float64
	Vary  bool
}

// Parameters is an ordered set of named parameters.
// The zero value is not usable; create one with [NewParameters].
type Parameters struct {
	order  []string
	byName map[string]*Parameter
}

// NewParameters returns an empty parameter set.
func NewParameters() *Parameters {
	return &Parameters{byName: make(map[string]*Parameter)}
}

// Add inserts or replaces a varying parameter bounded to [min, max].
// The value is clamped into the bounds.
func (p *Parameters) Add(name string, value, min, max float64) error {
	return p.AddParameter(Parameter{Name: name, Value: value, Min: min, Max: max, Vary: true})
}

// AddFixed inserts or replaces a parameter that minimizers do not vary.
func (p *Parameters) AddFixed(name string, value float64) error {
	return p.AddParameter(Parameter{Name: name, Value: value, Min: math.Inf(-1), Max: math.Inf(1)})
}

// AddParameter inserts or replaces q. Replacing keeps the original position.
func (p *Parameters) AddParameter(q Parameter) error {
	if q.Name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownParameter)
	}
	if math.IsNaN(q.Min) || math.IsNaN(q.Max) || q.Min > q.Max {
		return fmt.Errorf("%w: %s [%v, %v]", ErrInvalidBounds, q.Name, q.Min, q.Max)
	}
	if !core.IsFinite(q.Value) {
		return fmt.Errorf("%w: %s has non-finite value %v", ErrInvalidBounds, q.Name, q.Value)
	}
	if q.Vary && q.Min == q.Max {
		return fmt.Errorf("%w: %s has zero-width range", ErrInvalidBounds, q.Name)
	}
	q.Value = core.Clamp(q.Value, q.Min, q.Max)

	if _, ok := p.byName[q.Name]; !ok {
		p.order = append(p.order, q.Name)
	}
	p.byName[q.Name] = &q
	return nil
}

// Has reports whether name is present.
func (p *Parameters) Has(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Get returns a copy of the named parameter.
func (p *Parameters) Get(name string) (Parameter, bool) {
	q, ok := p.byName[name]
	if !ok {
		return Parameter{}, false
	}
	return *q, true
}

// Value returns the current value of the named parameter.
func (p *Parameters) Value(name string) (float64, error) {
	q, ok := p.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return q.Value, nil
}

// Set assigns a new value to the named parameter, clamped into its bounds.
func (p *Parameters) Set(name string, value float64) error {
	q, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	q.Value = core.Clamp(value, q.Min, q.Max)
	return nil
}

// Len returns the number of parameters.
func (p *Parameters) Len() int { return len(p.order) }

// Names returns all parameter names in insertion order.
func (p *Parameters) Names() []string {
	return append([]string(nil), p.order...)
}

// Free returns the names of varying parameters in insertion order.
func (p *Parameters) Free() []string {
	var free []string
	for _, name := range p.order {
		if p.byName[name].Vary {
			free = append(free, name)
		}
	}
	return free
}

// Clone returns a deep copy.
func (p *Parameters) Clone() *Parameters {
	c := &Parameters{
		order:  append([]string(nil), p.order...),
		byName: make(map[string]*Parameter, len(p.byName)),
	}
	for name, q := range p.byName {
		cp := *q
		c.byName[name] = &cp
	}
	return c
}

// String formats the parameters as "name=value" pairs.
func (p *Parameters) String() string {
	var b strings.Builder
	for i, name := range p.order {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%.6g", name, p.byName[name].Value)
	}
	return b.String()
}

// internal returns the free parameters mapped to the unbounded space.
func (p *Parameters) internal() []float64 {
	var u []float64
	for _, name := range p.order {
		if q := p.byName[name]; q.Vary {
			u = append(u, q.toInternal())
		}
	}
	return u
}

// setInternal writes the free parameters from unbounded coordinates u.
func (p *Parameters) setInternal(u []float64) {
	i := 0
	for _, name := range p.order {
		if q := p.byName[name]; q.Vary {
			q.Value = q.fromInternal(u[i])
			i++
		}
	}
}

func (q *Parameter) toInternal() float64 {
	lo, hi := !math.IsInf(q.Min, -1), !math.IsInf(q.Max, 1)
	switch {
	case lo && hi:
		return math.Asin(core.Clamp(2*(q.Value-q.Min)/(q.Max-q.Min)-1, -1, 1))
	case lo:
		return math.Sqrt(math.Max(0, (q.Value-q.Min+1)*(q.Value-q.Min+1)-1))
	case hi:
		return math.Sqrt(math.Max(0, (q.Max-q.Value+1)*(q.Max-q.Value+1)-1))
	default:
		return q.Value
	}
}

func (q *Parameter) fromInternal(u float64) float64 {
	lo, hi := !math.IsInf(q.Min, -1), !math.IsInf(q.Max, 1)
	var x float64
	switch {
	case lo && hi:
		x = q.Min + (math.Sin(u)+1)*(q.Max-q.Min)/2
	case lo:
		x = q.Min - 1 + math.Sqrt(u*u+1)
	case hi:
		x = q.Max + 1 - math.Sqrt(u*u+1)
	default:
		return u
	}
	return core.Clamp(x, q.Min, q.Max)
}
