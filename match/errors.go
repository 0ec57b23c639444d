package match

import "errors"

// Errors returned by match constructors and fits.
var (
	ErrShapeMismatch   = errors.New("match: spectrum length does not match grid")
	ErrDegenerateKnots = errors.New("match: grid cannot hold the continuum knots")
	ErrInvalidState    = errors.New("match: no model has been computed")
	ErrDegenerateModel = errors.New("match: model spectrum is degenerate")
	ErrInvalidErrors   = errors.New("match: errors must be finite and positive in normalized mode")
)
