package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-specmatch/stellar"
)

type stellarFlags struct {
	radius, uRadius float64
	mass, uMass     float64
	plx, uPlx       float64
	theta, uTheta   float64
}

func stellarCmd() *cobra.Command {
	var f stellarFlags

	cmd := &cobra.Command{
		Use:   "stellar",
		Short: "Derive radius and surface gravity with uncertainties",
		Long: "Computes log g from a radius and mass in solar units. When --plx and --theta\n" +
			"are given, the radius is first derived from parallax and angular diameter (mas).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStellar(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().Float64Var(&f.radius, "radius", 1, "radius in solar radii")
	cmd.Flags().Float64Var(&f.uRadius, "radius-err", 0, "radius uncertainty in solar radii")
	cmd.Flags().Float64Var(&f.mass, "mass", 1, "mass in solar masses")
	cmd.Flags().Float64Var(&f.uMass, "mass-err", 0, "mass uncertainty in solar masses")
	cmd.Flags().Float64Var(&f.plx, "plx", 0, "parallax in mas")
	cmd.Flags().Float64Var(&f.uPlx, "plx-err", 0, "parallax uncertainty in mas")
	cmd.Flags().Float64Var(&f.theta, "theta", 0, "angular diameter in mas")
	cmd.Flags().Float64Var(&f.uTheta, "theta-err", 0, "angular diameter uncertainty in mas")
	return cmd
}

func runStellar(w io.Writer, f stellarFlags) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Quantity\tValue\tUncertainty\n")
	fmt.Fprintf(tw, "--------\t-----\t-----------\n")

	radius, uRadius := f.radius, f.uRadius
	if f.plx != 0 || f.theta != 0 {
		var err error
		radius, uRadius, err = stellar.Radius(f.plx, f.uPlx, f.theta, f.uTheta)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "distance [pc]\t%.4f\t\n", stellar.Distance(f.plx)/stellar.Parsec)
		fmt.Fprintf(tw, "radius [R_sun]\t%.4f\t%.4f\n", radius, uRadius)
	}

	logg, uLogg, err := stellar.Logg(radius, uRadius, f.mass, f.uMass)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "log g [cgs]\t%.4f\t%.4f\n", logg, uLogg)
	return tw.Flush()
}
