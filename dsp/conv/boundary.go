package conv

import "fmt"

// Boundary selects how a signal is extended past its edges.
type Boundary int

const (
	// BoundaryZero pads with zeros.
	BoundaryZero Boundary = iota

	// BoundaryReflect mirrors about the edge, repeating the edge sample:
	// (d c b a | a b c d | d c b a).
	BoundaryReflect

	// BoundaryNearest repeats the edge sample: (a a a a | a b c d | d d d d).
	BoundaryNearest
)

// String returns the boundary name.
func (b Boundary) String() string {
	switch b {
	case BoundaryZero:
		return "zero"
	case BoundaryReflect:
		return "reflect"
	case BoundaryNearest:
		return "nearest"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// Extend returns signal padded with left samples before and right samples after,
// filled according to boundary.
func Extend(signal []float64, left, right int, boundary Boundary) ([]float64, error) {
	n := len(signal)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if left < 0 || right < 0 {
		return nil, fmt.Errorf("%w: negative extension %d/%d", ErrLengthMismatch, left, right)
	}

	out := make([]float64, left+n+right)
	copy(out[left:], signal)

	switch boundary {
	case BoundaryZero:
	case BoundaryReflect:
		for i := 0; i < left; i++ {
			out[i] = signal[reflectIndex(i-left, n)]
		}
		for i := 0; i < right; i++ {
			out[left+n+i] = signal[reflectIndex(n+i, n)]
		}
	case BoundaryNearest:
		for i := 0; i < left; i++ {
			out[i] = signal[0]
		}
		for i := 0; i < right; i++ {
			out[left+n+i] = signal[n-1]
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoundary, boundary)
	}

	return out, nil
}

// reflectIndex maps an out-of-range index onto [0, n) by half-sample
// symmetric reflection. The pattern has period 2n.
func reflectIndex(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// ConvolveSame convolves signal with kernel and returns an output of the same
// length as signal. The kernel is centered at index (len(kernel)-1)/2 and the
// signal is extended past its edges according to boundary.
func ConvolveSame(signal, kernel []float64, boundary Boundary) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	left := (len(kernel) - 1) / 2
	right := len(kernel) - 1 - left

	ext, err := Extend(signal, left, right, boundary)
	if err != nil {
		return nil, err
	}

	full, err := Convolve(ext, kernel)
	if err != nil {
		return nil, err
	}

	// full[p] = sum_k ext[p-k] kernel[k]; the centered output for input sample i
	// lives at p = i + 2*left.
	out := make([]float64, len(signal))
	copy(out, full[2*left:2*left+len(signal)])
	return out, nil
}
