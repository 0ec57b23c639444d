package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-specmatch/fit"
	"github.com/cwbudde/algo-specmatch/match"
	"github.com/cwbudde/algo-specmatch/stats/residual"
)

// splineDOF is the number of continuum coefficients fitted alongside the
// free parameters.
const splineDOF = match.NumKnots + 4

type selftestFlags struct {
	synthetic
	vsini      float64
	weight     float64
	noise      float64
	seed       int64
	oversample int
}

// reference synthesizes a spectrum oversample times finer than grid and
// resamples it onto grid, the way library spectra reach an observation grid.
func (f selftestFlags) reference(grid []float64, seed int64) (match.Spectrum, error) {
	if f.oversample <= 1 {
		return f.spectrum(grid, seed), nil
	}
	fine := f.synthetic
	fine.points = (f.points-1)*f.oversample + 1
	fw := fine.grid()
	return match.Resample(fw, f.spectrum(fw, seed), grid)
}

func selftestCmd(g *globals) *cobra.Command {
	f := selftestFlags{synthetic: synthetic{lo: 5000, hi: 5010, points: 1000, lines: 12, errBar: 0.01}}

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Recover injected parameters from synthetic spectra",
		Long: "Builds synthetic absorption spectra, broadens them by a known vsini and\n" +
			"fits them back with a single-reference and a linear-combination match.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.weight < 0 || f.weight > 1 {
				return fmt.Errorf("weight %v outside [0, 1]", f.weight)
			}
			if f.points < match.MinGridLength {
				return fmt.Errorf("points %d below %d", f.points, match.MinGridLength)
			}
			return runSelftest(cmd.OutOrStdout(), g, f)
		},
	}

	cmd.Flags().Float64Var(&f.vsini, "vsini", 4, "injected vsini in km/s")
	cmd.Flags().Float64Var(&f.weight, "weight", 0.3, "injected weight of the first reference in the linear combination")
	cmd.Flags().Float64Var(&f.noise, "noise", 0, "Gaussian noise sigma added to the target flux")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "random seed for line lists and noise")
	cmd.Flags().IntVar(&f.oversample, "oversample", 4, "synthesize references this many times finer and resample them")
	cmd.Flags().IntVar(&f.points, "points", f.points, "number of grid samples")
	cmd.Flags().IntVar(&f.lines, "lines", f.lines, "number of absorption lines per spectrum")
	cmd.Flags().Float64Var(&f.lo, "lo", f.lo, "first wavelength in Angstrom")
	cmd.Flags().Float64Var(&f.hi, "hi", f.hi, "last wavelength in Angstrom")
	return cmd
}

type selftestRow struct {
	variant   string
	injected  string
	recovered string
	chi2      float64
	reduced   float64
	result    fit.Result
}

func runSelftest(w io.Writer, g *globals, f selftestFlags) error {
	grid := f.grid()
	opts := g.cfg.MatchOptions(g.logger)

	single, err := selftestSingle(grid, f, opts)
	if err != nil {
		return err
	}
	lincomb, err := selftestLincomb(grid, f, opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Variant\tMethod\tInjected\tRecovered\tChi2\tReduced Chi2\tStatus\tIterations\tEvaluations\n")
	fmt.Fprintf(tw, "-------\t------\t--------\t---------\t----\t------------\t------\t----------\t-----------\n")
	for _, r := range []selftestRow{single, lincomb} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4g\t%.4g\t%s\t%d\t%d\n",
			r.variant, r.result.Method, r.injected, r.recovered, r.chi2, r.reduced,
			r.result.Status, r.result.Iterations, r.result.Evaluations)
	}
	return tw.Flush()
}

func selftestSingle(grid []float64, f selftestFlags, opts []match.Option) (selftestRow, error) {
	target, err := broadenSpectrum(grid, f.vsini, f.spectrum(grid, f.seed))
	if err != nil {
		return selftestRow{}, err
	}
	ref, err := f.reference(grid, f.seed)
	if err != nil {
		return selftestRow{}, err
	}
	addNoise(target.Flux, f.noise, f.seed+100)

	m, err := match.NewSingleMatch(grid, target, ref, opts...)
	if err != nil {
		return selftestRow{}, err
	}
	chi2, err := m.BestFit(nil)
	if err != nil && !errors.Is(err, fit.ErrNonConvergence) {
		return selftestRow{}, err
	}

	vsini, _ := m.BestParams().Value(match.ParamVsini)
	return selftestRow{
		variant:   "single",
		injected:  fmt.Sprintf("vsini=%.3f", f.vsini),
		recovered: fmt.Sprintf("vsini=%.3f", vsini),
		chi2:      chi2,
		reduced:   residual.ReducedChiSquare(chi2, len(grid), 1+splineDOF),
		result:    m.Result(),
	}, nil
}

func selftestLincomb(grid []float64, f selftestFlags, opts []match.Option) (selftestRow, error) {
	a := f.spectrum(grid, f.seed+1)
	b := f.spectrum(grid, f.seed+2)

	mix := match.Spectrum{Flux: make([]float64, len(grid)), Err: make([]float64, len(grid))}
	floats.AddScaled(mix.Flux, f.weight, a.Flux)
	floats.AddScaled(mix.Flux, 1-f.weight, b.Flux)
	floats.AddScaled(mix.Err, f.weight, a.Err)
	floats.AddScaled(mix.Err, 1-f.weight, b.Err)

	target, err := broadenSpectrum(grid, f.vsini, mix)
	if err != nil {
		return selftestRow{}, err
	}
	addNoise(target.Flux, f.noise, f.seed+200)

	refA, err := f.reference(grid, f.seed+1)
	if err != nil {
		return selftestRow{}, err
	}
	refB, err := f.reference(grid, f.seed+2)
	if err != nil {
		return selftestRow{}, err
	}

	m, err := match.NewLincombMatch(grid, target, []match.Spectrum{refA, refB}, []float64{f.vsini, f.vsini}, opts...)
	if err != nil {
		return selftestRow{}, err
	}
	chi2, err := m.BestFit(nil)
	if err != nil && !errors.Is(err, fit.ErrNonConvergence) {
		return selftestRow{}, err
	}

	coeffs := m.Coefficients()
	return selftestRow{
		variant:   "lincomb",
		injected:  fmt.Sprintf("%.3f/%.3f", f.weight, 1-f.weight),
		recovered: fmt.Sprintf("%.3f/%.3f", coeffs[0], coeffs[1]),
		chi2:      chi2,
		reduced:   residual.ReducedChiSquare(chi2, len(grid), len(coeffs)+splineDOF),
		result:    m.Result(),
	}, nil
}

func broadenSpectrum(grid []float64, vsini float64, s match.Spectrum) (match.Spectrum, error) {
	flux, err := match.Broaden(grid, vsini, s.Flux)
	if err != nil {
		return match.Spectrum{}, err
	}
	errs, err := match.Broaden(grid, vsini, s.Err)
	if err != nil {
		return match.Spectrum{}, err
	}
	return match.Spectrum{Flux: flux, Err: errs}, nil
}
