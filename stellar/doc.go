// Package stellar converts between fundamental stellar parameters.
//
// Masses and radii are in solar units, angles in milliarcseconds and surface
// gravities in log10(cm/s^2). Uncertainties are propagated linearly in the
// relative errors.
package stellar
