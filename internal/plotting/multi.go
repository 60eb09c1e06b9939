package plotting

import (
	"fmt"

	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/pkg/models"
)

// Mode selects the intensity column of a multi-curve chart
type Mode string

const (
	// ModeNormalized plots each table's own normalized column
	ModeNormalized Mode = "normalized"
	// ModeRaw plots raw counts
	ModeRaw Mode = "raw"
	// ModeOverall renormalizes all tables against the batch's global count range
	ModeOverall Mode = "overall"
)

// ParseMode validates a mode name; empty means ModeNormalized
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case "", ModeNormalized:
		return ModeNormalized, nil
	case ModeRaw, ModeOverall:
		return Mode(value), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want normalized, raw or overall)", value)
	}
}

// MultiOptions configures a multi-curve chart
type MultiOptions struct {
	Energy   bool
	Mode     Mode
	Shift    []float64
	Legend   []string
	Strategy LegendStrategy
}

// Multi builds one curve per table, shifted along x by Shift[i] and labelled
// by Legend[i] or the legend strategy. Shift and Legend may be empty; when
// given they must have one entry per table.
func Multi(tables []models.NamedTable, opts MultiOptions) (models.Chart, error) {
	if len(opts.Shift) > 0 && len(opts.Shift) != len(tables) {
		return models.Chart{}, fmt.Errorf("%w: %d shifts for %d tables", spectrum.ErrShiftMismatch, len(opts.Shift), len(tables))
	}

	names := make([]string, len(tables))
	for i, nt := range tables {
		names[i] = nt.Name
	}
	legends, ok := Legends(names, opts.Legend, opts.Strategy)
	if !ok {
		return models.Chart{}, fmt.Errorf("%w: %d labels for %d tables", spectrum.ErrLegendMismatch, len(opts.Legend), len(tables))
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeNormalized
	}
	axes := Axes{Energy: opts.Energy, Normalize: mode != ModeRaw}

	var warnings []string
	if mode == ModeOverall {
		normalized, err := spectrum.OverallNormalize(tables)
		if err != nil {
			return models.Chart{}, err
		}
		tables = normalized
		warnings = append(warnings, spectrum.OverallNormalizeWarning)
	}

	xLabel, yLabel, reversed := axes.Labels()
	chart := models.Chart{
		XLabel:    xLabel,
		YLabel:    yLabel,
		XReversed: reversed,
		Series:    make([]models.Series, 0, len(tables)),
		Warnings:  warnings,
	}
	for i, nt := range tables {
		s := Project(legends[i], nt.Table, axes)
		if len(opts.Shift) > 0 {
			s = Shift(s, opts.Shift[i])
		}
		chart.Series = append(chart.Series, s)
	}
	return chart, nil
}
