package plotting

import (
	"strconv"

	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/pkg/models"
)

// SmoothPeaks builds the "smooth & peak" view: the smoothed normalized curve of
// every table over wavelength, plus a vertical marker at each smoothed maximum
// drawn in the same palette slot as its curve.
func SmoothPeaks(tables []models.NamedTable, window, order int) (models.Chart, []models.Peak, error) {
	chart := models.Chart{
		XLabel: WavelengthLabel,
		YLabel: NormalizedLabel,
		Series: make([]models.Series, 0, len(tables)),
	}
	peaks := make([]models.Peak, 0, len(tables))

	for i, nt := range tables {
		peak, smoothed, err := spectrum.FindPeak(nt.Name, nt.Table, window, order)
		if err != nil {
			return models.Chart{}, nil, err
		}
		chart.Series = append(chart.Series, models.Series{
			Name:   nt.Name,
			X:      nt.Table.Wavelengths(),
			Y:      smoothed,
			XLabel: WavelengthLabel,
			YLabel: NormalizedLabel,
		})
		chart.Markers = append(chart.Markers, models.Marker{
			X:     peak.Wavelength,
			Label: strconv.FormatFloat(peak.Wavelength, 'f', -1, 64),
			Color: i,
		})
		peaks = append(peaks, peak)
	}
	return chart, peaks, nil
}
