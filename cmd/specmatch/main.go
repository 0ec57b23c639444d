// Command specmatch inspects rotational broadening kernels, runs synthetic
// spectral-matching fits and derives stellar radius and surface gravity.
//
// Usage:
//
//	specmatch [--config fit.yaml] [--log dev|prod|silent] <command>
//
// Examples:
//
//	specmatch kernel 1 5 10
//	specmatch kernel --dv 1.2 --limb 0.4 25
//	specmatch selftest --vsini 6 --noise 0.005 --oversample 8
//	specmatch stellar --plx 20 --plx-err 0.1 --theta 0.4 --theta-err 0.01 --mass 1.1
//	specmatch --config fit.yaml --log dev selftest
package main

import (
	"os"

	"github.com/cwbudde/algo-specmatch/cmd/specmatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
