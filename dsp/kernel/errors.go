package kernel

import "errors"

var (
	ErrInvalidSize     = errors.New("kernel: size must be odd and > 0")
	ErrInvalidSpacing  = errors.New("kernel: velocity spacing must be finite and > 0")
	ErrInvalidVelocity = errors.New("kernel: velocity must be finite and >= 0")
	ErrLengthMismatch  = errors.New("kernel: velocities and weights must have same length")
)
