package conv_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-specmatch/dsp/conv"
)

func ExampleDirect() {
	// Simple moving average filter
	signal := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	kernel := []float64{0.25, 0.5, 0.25}

	result, _ := conv.Direct(signal, kernel)

	fmt.Printf("Input length: %d\n", len(signal))
	fmt.Printf("Kernel length: %d\n", len(kernel))
	fmt.Printf("Output length: %d\n", len(result))
	fmt.Printf("First few values: %.2f, %.2f, %.2f\n", result[0], result[1], result[2])

	// Output:
	// Input length: 9
	// Kernel length: 3
	// Output length: 11
	// First few values: 0.25, 1.00, 2.00
}

func ExampleConvolve() {
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 50)
	}

	// Short kernel uses direct convolution
	shortKernel := []float64{0.2, 0.3, 0.3, 0.2}
	result1, _ := conv.Convolve(signal, shortKernel)
	fmt.Printf("Short kernel result length: %d\n", len(result1))

	// Longer kernel uses FFT-based convolution
	longKernel := make([]float64, 100)
	for i := range longKernel {
		longKernel[i] = math.Exp(-float64(i) / 20)
	}

	result2, _ := conv.Convolve(signal, longKernel)
	fmt.Printf("Long kernel result length: %d\n", len(result2))

	// Output:
	// Short kernel result length: 1003
	// Long kernel result length: 1099
}

func ExampleConvolveSame() {
	// An absorption line on a flat continuum, smoothed by a box kernel.
	flux := []float64{1, 1, 1, 0.4, 1, 1, 1}
	box := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

	out, _ := conv.ConvolveSame(flux, box, conv.BoundaryReflect)
	for _, v := range out {
		fmt.Printf("%.2f ", v)
	}
	fmt.Println()

	// Output:
	// 1.00 1.00 0.80 0.80 0.80 1.00 1.00
}
