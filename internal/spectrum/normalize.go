package spectrum

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/specplot/pkg/models"
)

// OverallNormalizeWarning is surfaced whenever tables are normalized against shared bounds
const OverallNormalizeWarning = "overall normalization is only reasonable when every file shares the same exposure condition"

// CountRange returns the minimum and maximum raw count of a table
func CountRange(t models.Table) (float64, float64) {
	counts := t.Counts()
	if len(counts) == 0 {
		return 0, 0
	}
	return floats.Min(counts), floats.Max(counts)
}

// OverallNormalize renormalizes every table against the global count range of the batch.
// The inputs are left untouched; the returned tables carry fresh sample slices.
func OverallNormalize(tables []models.NamedTable) ([]models.NamedTable, error) {
	log.Warn().Int("tables", len(tables)).Msg(OverallNormalizeWarning)

	if len(tables) == 0 {
		return nil, nil
	}

	lo, hi := CountRange(tables[0].Table)
	for _, nt := range tables[1:] {
		tlo, thi := CountRange(nt.Table)
		if tlo < lo {
			lo = tlo
		}
		if thi > hi {
			hi = thi
		}
	}

	out := make([]models.NamedTable, len(tables))
	for i, nt := range tables {
		samples := make([]models.Sample, len(nt.Table.Samples))
		copy(samples, nt.Table.Samples)
		table := models.Table{Samples: samples}
		if err := normalizeInto(table, lo, hi, "batch"); err != nil {
			return nil, err
		}
		out[i] = models.NamedTable{Name: nt.Name, Table: table}
	}
	return out, nil
}

// normalizeInto writes (count-lo)/(hi-lo) into each sample's Normalized field
func normalizeInto(t models.Table, lo, hi float64, source string) error {
	if hi == lo {
		return &DegenerateRangeError{Source: source, Value: lo}
	}
	span := hi - lo
	for i := range t.Samples {
		t.Samples[i].Normalized = (t.Samples[i].Count - lo) / span
	}
	return nil
}
