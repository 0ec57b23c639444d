package stellar

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"

	"github.com/cwbudde/algo-specmatch/dsp/core"
)

// ErrInvalidInput is returned for non-positive or non-finite values and
// negative uncertainties.
var ErrInvalidInput = errors.New("stellar: invalid input")

// Physical constants in SI units (CODATA 2018, IAU 2015 nominal solar values).
const (
	G                = 6.6743e-11            // m^3 kg^-1 s^-2
	SolarMass        = 1.988409870698e30     // kg
	SolarRadius      = 6.957e8               // m
	AstronomicalUnit = 1.495978707e11        // m
	Parsec           = 3.0856775814913673e16 // m
)

// Logg returns the surface gravity log10(G M / R^2) in cgs for a star of the
// given radius and mass (solar units), and its propagated uncertainty
// (uMass/mass + 2 uRadius/radius) * logg.
func Logg(radius, uRadius, mass, uMass float64) (logg, uLogg float64, err error) {
	if err := check("radius", radius, uRadius); err != nil {
		return 0, 0, err
	}
	if err := check("mass", mass, uMass); err != nil {
		return 0, 0, err
	}

	r := radius * SolarRadius
	m := mass * SolarMass
	g := G * m / (r * r) * 100 // m/s^2 to cm/s^2

	logg = math.Log10(g)
	uLogg = (uMass/mass + 2*uRadius/radius) * logg
	return logg, uLogg, nil
}

// Radius returns the stellar radius in solar radii from a parallax and an
// angular diameter, both in milliarcseconds, and its propagated uncertainty
// (uPlx/plx + uTheta/theta) * radius.
func Radius(plx, uPlx, theta, uTheta float64) (radius, uRadius float64, err error) {
	if err := check("parallax", plx, uPlx); err != nil {
		return 0, 0, err
	}
	if err := check("angular diameter", theta, uTheta); err != nil {
		return 0, 0, err
	}

	dist := Distance(plx)
	radius = dist * milliarcsec(theta).Rad() / 2 / SolarRadius
	uRadius = (uPlx/plx + uTheta/theta) * radius
	return radius, uRadius, nil
}

// Distance returns the distance in meters for a parallax in milliarcseconds.
func Distance(plx float64) float64 {
	return AstronomicalUnit / milliarcsec(plx).Rad()
}

func milliarcsec(v float64) unit.Angle {
	return unit.AngleFromSec(v / 1000)
}

func check(name string, v, u float64) error {
	if !core.IsFinite(v) || v <= 0 {
		return fmt.Errorf("%w: %s %v", ErrInvalidInput, name, v)
	}
	if !core.IsFinite(u) || u < 0 {
		return fmt.Errorf("%w: %s uncertainty %v", ErrInvalidInput, name, u)
	}
	return nil
}
