package residual_test

import (
	"fmt"

	"github.com/cwbudde/algo-specmatch/stats/residual"
)

func ExampleCalculate() {
	s := residual.Calculate([]float64{1, -1, 1, -1})
	fmt.Printf("chi2=%.1f rms=%.1f changes=%d\n", s.ChiSquare, s.RMS, s.SignChanges)

	// Output:
	// chi2=4.0 rms=1.0 changes=3
}

func ExampleReducedChiSquare() {
	fmt.Printf("%.2f\n", residual.ReducedChiSquare(12, 10, 2))

	// Output:
	// 1.50
}
