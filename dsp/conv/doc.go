// Package conv provides one-dimensional linear convolution for spectra.
//
// Two strategies are available:
//
//   - Direct convolution: O(N*M) time-domain convolution, used for short kernels (<= 64 taps)
//   - Overlap-add (OLA): FFT-based block convolution for longer kernels
//
// # Usage
//
// For one-shot convolution, use the simple functions:
//
//	result, err := conv.Convolve(signal, kernel)                 // Auto-selects best algorithm
//	result, err := conv.ConvolveMode(signal, kernel, conv.ModeSame)
//	result, err := conv.Direct(signal, kernel)                   // Force direct convolution
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	c, err := conv.NewOverlapAdd(kernel, blockSize)
//	result, err := c.Process(signal)
//
// # Boundaries
//
// [ConvolveSame] returns an output aligned sample-for-sample with the input.
// The signal is extended on both sides before convolution so that samples near
// the edges see a full kernel support:
//
//	out, err := conv.ConvolveSame(flux, weights, conv.BoundaryReflect)
//
// [BoundaryReflect] mirrors the signal about its edges (d c b a | a b c d | d c b a),
// [BoundaryNearest] repeats the edge samples and [BoundaryZero] pads with zeros.
package conv
