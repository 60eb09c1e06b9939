// Package plotting projects measurement tables onto chart axes. It builds the
// renderer-independent models.Chart values for the simple, multi-curve and
// smooth & peak views; it never draws anything itself.
package plotting

import (
	"github.com/RMahshie/specplot/pkg/models"
)

// Axis titles
const (
	WavelengthLabel = "Wavelength (nm)"
	EnergyLabel     = "Energy (eV)"
	NormalizedLabel = "Normalized intensity (arb.u.)"
	CountLabel      = "Intensity (arb.u.)"
)

// Axes selects the domain and intensity columns of a projection
type Axes struct {
	// Energy plots photon energy instead of wavelength; the x axis is then reversed
	Energy bool
	// Normalize plots the normalized column instead of raw counts
	Normalize bool
}

// Labels returns the axis titles and whether the x axis runs high to low
func (a Axes) Labels() (string, string, bool) {
	xLabel, yLabel := WavelengthLabel, CountLabel
	if a.Energy {
		xLabel = EnergyLabel
	}
	if a.Normalize {
		yLabel = NormalizedLabel
	}
	return xLabel, yLabel, a.Energy
}

// Project maps a table onto the selected axes
func Project(name string, t models.Table, axes Axes) models.Series {
	xLabel, yLabel, reversed := axes.Labels()

	x := t.Wavelengths()
	if axes.Energy {
		x = t.Energies()
	}
	y := t.Counts()
	if axes.Normalize {
		y = t.NormalizedValues()
	}

	return models.Series{
		Name:      name,
		X:         x,
		Y:         y,
		XLabel:    xLabel,
		YLabel:    yLabel,
		XReversed: reversed,
	}
}

// Shift returns a copy of s with offset added to every x value
func Shift(s models.Series, offset float64) models.Series {
	x := make([]float64, len(s.X))
	for i, v := range s.X {
		x[i] = v + offset
	}
	s.X = x
	return s
}

// Simple builds the "simple plot" view: one curve per table, labelled by file name
func Simple(tables []models.NamedTable, axes Axes, logY bool) models.Chart {
	xLabel, yLabel, reversed := axes.Labels()
	chart := models.Chart{
		XLabel:    xLabel,
		YLabel:    yLabel,
		XReversed: reversed,
		LogY:      logY,
		Series:    make([]models.Series, 0, len(tables)),
	}
	for _, nt := range tables {
		chart.Series = append(chart.Series, Project(nt.Name, nt.Table, axes))
	}
	return chart
}
