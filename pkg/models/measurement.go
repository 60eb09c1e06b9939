package models

// Sample represents a single row of a measurement file plus its derived columns
type Sample struct {
	Wavelength float64 `json:"wavelength" doc:"Wavelength in nm"`
	Count      float64 `json:"count" doc:"Raw detector intensity"`
	Normalized float64 `json:"normalized" doc:"Intensity scaled to [0, 1]"`
	Energy     float64 `json:"energy" doc:"Photon energy in eV"`
}

// Table is an ordered set of samples loaded from one file.
// Derived columns are filled once at load time and never mutated afterwards.
type Table struct {
	Samples []Sample `json:"samples"`
}

// Len returns the number of samples
func (t Table) Len() int {
	return len(t.Samples)
}

// Wavelengths returns the wavelength column
func (t Table) Wavelengths() []float64 {
	return t.column(func(s Sample) float64 { return s.Wavelength })
}

// Counts returns the raw count column
func (t Table) Counts() []float64 {
	return t.column(func(s Sample) float64 { return s.Count })
}

// NormalizedValues returns the normalized intensity column
func (t Table) NormalizedValues() []float64 {
	return t.column(func(s Sample) float64 { return s.Normalized })
}

// Energies returns the photon energy column
func (t Table) Energies() []float64 {
	return t.column(func(s Sample) float64 { return s.Energy })
}

func (t Table) column(get func(Sample) float64) []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = get(s)
	}
	return out
}

// NamedTable pairs a display name (the source file name) with its table
type NamedTable struct {
	Name  string `json:"name"`
	Table Table  `json:"table"`
}

// TableSummary holds descriptive statistics of a table's raw counts
type TableSummary struct {
	Name          string  `json:"name" doc:"Source file name"`
	Rows          int     `json:"rows" doc:"Number of samples"`
	MinWavelength float64 `json:"min_wavelength" doc:"Shortest wavelength in nm"`
	MaxWavelength float64 `json:"max_wavelength" doc:"Longest wavelength in nm"`
	MinCount      float64 `json:"min_count" doc:"Minimum raw count"`
	MaxCount      float64 `json:"max_count" doc:"Maximum raw count"`
	MeanCount     float64 `json:"mean_count" doc:"Mean raw count"`
	MedianCount   float64 `json:"median_count" doc:"Median raw count"`
	StdDevCount   float64 `json:"stddev_count" doc:"Population standard deviation of raw counts"`
}
