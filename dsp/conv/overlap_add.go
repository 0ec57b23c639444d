package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// minBlockSize is the smallest input block used when the caller lets
// [NewOverlapAdd] choose the block size.
const minBlockSize = 256

// OverlapAdd implements FFT-based convolution using the overlap-add method.
// The kernel spectrum is computed once, so one OverlapAdd can convolve many
// signals with the same kernel.
//
// The algorithm:
// 1. Divide input signal into non-overlapping blocks
// 2. Zero-pad each block and the kernel to FFT size
// 3. Convolve via FFT multiplication in frequency domain
// 4. Overlap-add the results to form the output
type OverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int // blockSize + kernelLen - 1, rounded up to a power of 2

	plan *algofft.Plan[complex128]

	scratch []complex128
}

// NewOverlapAdd creates a new overlap-add convolver for the given kernel.
// blockSize determines how the input signal is segmented.
// If blockSize is 0, an automatic size is chosen based on kernel length.
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	kernelLen := len(kernel)
	if blockSize == 0 {
		blockSize = max(nextPowerOf2(kernelLen), minBlockSize)
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		scratch:   make([]complex128, fftSize),
	}

	for i, v := range kernel {
		oa.scratch[i] = complex(v, 0)
	}
	if err := plan.Forward(oa.kernelFFT, oa.scratch); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// BlockSize returns the input block size.
func (oa *OverlapAdd) BlockSize() int { return oa.blockSize }

// FFTSize returns the FFT size used internally.
func (oa *OverlapAdd) FFTSize() int { return oa.fftSize }

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int { return oa.kernelLen }

// Process convolves the input signal with the kernel.
// Returns the full linear convolution result.
func (oa *OverlapAdd) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]float64, len(input)+oa.kernelLen-1)
	if err := oa.ProcessTo(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// ProcessTo convolves input and writes to pre-allocated output.
// Output must have length len(input) + kernelLen - 1.
func (oa *OverlapAdd) ProcessTo(output, input []float64) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	outputLen := len(input) + oa.kernelLen - 1
	if len(output) != outputLen {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, outputLen, len(output))
	}
	for i := range output {
		output[i] = 0
	}

	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))

		for i := range oa.scratch {
			oa.scratch[i] = 0
		}
		for i, v := range input[start:end] {
			oa.scratch[i] = complex(v, 0)
		}

		if err := oa.plan.Forward(oa.scratch, oa.scratch); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}
		for i := range oa.scratch {
			oa.scratch[i] *= oa.kernelFFT[i]
		}
		if err := oa.plan.Inverse(oa.scratch, oa.scratch); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		// A block of length L convolved with M taps spans L + M - 1 samples.
		resultLen := end - start + oa.kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += real(oa.scratch[i])
		}
	}

	return nil
}

// OverlapAddConvolve performs one-shot overlap-add convolution.
// This is a convenience function that creates a temporary OverlapAdd instance.
func OverlapAddConvolve(signal, kernel []float64) ([]float64, error) {
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}
	return oa.Process(signal)
}
