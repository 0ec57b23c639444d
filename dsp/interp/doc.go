// Package interp resamples sampled curves onto new abscissae.
//
// Two methods are available:
//
//   - [Linear]:  2-point linear interpolation
//   - [Hermite]: cubic Hermite with finite-difference slopes (good default)
//
// [Resample] accepts non-uniform, strictly increasing sample positions, as
// found in wavelength grids of spectra. [Hermite4] is the underlying
// uniform-spacing kernel.
package interp
