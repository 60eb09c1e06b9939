// Package spectrum turns raw two-column measurement files into tables with
// normalized intensity and photon energy, and provides the batch
// normalization, smoothing and peak helpers used by the chart builders.
package spectrum

// Constants holds the physical constants used for the energy conversion.
type Constants struct {
	// Planck is Planck's constant expressed in eV*s
	Planck float64
	// SpeedOfLight is in m/s
	SpeedOfLight float64
}

// DefaultConstants are the rounded values the lab tooling has always used.
var DefaultConstants = Constants{
	Planck:       6.63e-34 / 1.6e-19,
	SpeedOfLight: 3e8,
}

// Energy converts a wavelength in nanometres to photon energy in eV.
func (c Constants) Energy(wavelengthNM float64) float64 {
	return c.Planck * c.SpeedOfLight / (wavelengthNM * 1e-9)
}
