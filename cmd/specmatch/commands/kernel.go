package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-specmatch/dsp/kernel"
	"github.com/cwbudde/algo-specmatch/match"
)

var defaultKernelVsini = []float64{0, 1, 2, 5, 10, 20}

func kernelCmd() *cobra.Command {
	var (
		taps int
		dv   float64
		limb float64
	)

	cmd := &cobra.Command{
		Use:   "kernel [vsini ...]",
		Short: "Print properties of rotational broadening kernels",
		Long: "Prints numerically measured properties of rotational broadening kernels.\n" +
			"Velocities are in km/s. Without arguments a default set of vsini values is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			velocities := defaultKernelVsini
			if len(args) > 0 {
				velocities = make([]float64, len(args))
				for i, a := range args {
					v, err := strconv.ParseFloat(a, 64)
					if err != nil {
						return fmt.Errorf("invalid vsini %q: %w", a, err)
					}
					velocities[i] = v
				}
			}
			return printKernels(cmd.OutOrStdout(), taps, dv, limb, velocities)
		},
	}

	cmd.Flags().IntVar(&taps, "taps", match.KernelSize, "kernel length in taps (odd)")
	cmd.Flags().Float64Var(&dv, "dv", 0.6, "velocity spacing per tap in km/s")
	cmd.Flags().Float64Var(&limb, "limb", kernel.DefaultLimbDarkening, "linear limb darkening coefficient")
	return cmd
}

func printKernels(w io.Writer, taps int, dv, limb float64, velocities []float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "vsini [km/s]\tTaps\tSupport\tSum\tPeak\tFWHM [km/s]\tRMS width [km/s]\n")
	fmt.Fprintf(tw, "------------\t----\t-------\t---\t----\t-----------\t----------------\n")

	for _, vsini := range velocities {
		v, weights, err := kernel.Rotational(taps, dv, vsini, kernel.WithLimbDarkening(limb))
		if err != nil {
			return err
		}
		a := kernel.Analyze(v, weights)
		fmt.Fprintf(tw, "%.2f\t%d\t%d\t%.6f\t%.4f\t%.3f\t%.3f\n",
			vsini, taps, a.Support, a.Sum, a.Peak, a.FWHM, a.RMSWidth)
	}

	return tw.Flush()
}
