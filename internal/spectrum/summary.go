package spectrum

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/RMahshie/specplot/pkg/models"
)

// Summarize computes descriptive statistics of a table's counts and wavelength span
func Summarize(nt models.NamedTable) (models.TableSummary, error) {
	summary := models.TableSummary{Name: nt.Name, Rows: nt.Table.Len()}
	if summary.Rows == 0 {
		return summary, nil
	}

	counts := stats.Float64Data(nt.Table.Counts())
	wavelengths := stats.Float64Data(nt.Table.Wavelengths())

	var err error
	if summary.MinCount, err = counts.Min(); err != nil {
		return summary, fmt.Errorf("min count: %w", err)
	}
	if summary.MaxCount, err = counts.Max(); err != nil {
		return summary, fmt.Errorf("max count: %w", err)
	}
	if summary.MeanCount, err = counts.Mean(); err != nil {
		return summary, fmt.Errorf("mean count: %w", err)
	}
	if summary.MedianCount, err = counts.Median(); err != nil {
		return summary, fmt.Errorf("median count: %w", err)
	}
	if summary.StdDevCount, err = counts.StandardDeviation(); err != nil {
		return summary, fmt.Errorf("stddev count: %w", err)
	}
	if summary.MinWavelength, err = wavelengths.Min(); err != nil {
		return summary, fmt.Errorf("min wavelength: %w", err)
	}
	if summary.MaxWavelength, err = wavelengths.Max(); err != nil {
		return summary, fmt.Errorf("max wavelength: %w", err)
	}
	return summary, nil
}
