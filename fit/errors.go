package fit

import "errors"

var (
	ErrNonConvergence   = errors.New("fit: optimizer did not converge")
	ErrUnknownParameter = errors.New("fit: unknown parameter")
	ErrInvalidBounds    = errors.New("fit: invalid bounds")
	ErrNoFreeParameters = errors.New("fit: no varying parameters")
	ErrUnknownMethod    = errors.New("fit: unknown method")
	ErrInvalidSettings  = errors.New("fit: invalid settings")
	ErrEmptyResiduals   = errors.New("fit: objective returned no residuals")
	ErrResidualsResized = errors.New("fit: residual vector changed length")
)
