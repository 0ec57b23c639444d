// Package kernel generates line-broadening kernels for spectra sampled on a
// uniform velocity grid.
//
// [Rotational] returns the classical rotation profile of a limb-darkened
// stellar disk (Gray, "The Observation and Analysis of Stellar Photospheres"):
//
//	G(x) = [2(1-e)sqrt(1-x^2) + (pi e / 2)(1-x^2)] / [pi vsini (1 - e/3)],  x = v / vsini
//
// Each tap holds the profile integrated over its velocity bin, so the weights
// vary smoothly with vsini and collapse to a unit impulse once the profile is
// narrower than a single bin. Weights are normalized to unit sum, so
// convolving with them preserves flux.
//
//	v, w, err := kernel.Rotational(151, dv, 4.5)
//	a := kernel.Analyze(v, w)
package kernel
