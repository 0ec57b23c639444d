// Package match fits an observed stellar spectrum against reference spectra.
//
// A [SingleMatch] broadens one reference spectrum by a projected rotational
// velocity (vsini) and solves for the continuum with a least-squares cubic
// spline at every trial. Only vsini is optimized numerically:
//
//	m, err := match.NewSingleMatch(w, target, reference,
//		match.WithMode(match.ModeNormalized))
//	chi2, err := m.BestFit(nil) // vsini starts at 1 km/s, bounded to [0, 10]
//	vsini, _ := m.BestParams().Value(match.ParamVsini)
//
// A [LincombMatch] models the target as a non-negative weighted sum of
// references that were broadened once at construction. The weights are
// pulled towards unit sum by a narrow Gaussian prior and are always fitted
// with the Nelder-Mead simplex method.
//
// All spectra must already be sampled on the same wavelength grid. Inputs are
// copied on construction. A match instance is not safe for concurrent use;
// independent instances share no state.
package match
