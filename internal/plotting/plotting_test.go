package plotting

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/specplot/internal/spectrum"
	"github.com/RMahshie/specplot/pkg/models"
)

func named(t *testing.T, name, input string) models.NamedTable {
	t.Helper()
	table, err := spectrum.ReadData(strings.NewReader(input), name)
	require.NoError(t, err)
	return models.NamedTable{Name: name, Table: table}
}

func TestProject_FourCombinations(t *testing.T) {
	nt := named(t, "sample_S001.txt", "500 10\n600 30\n700 20\n")

	tests := []struct {
		name     string
		axes     Axes
		x        []float64
		y        []float64
		xLabel   string
		yLabel   string
		reversed bool
	}{
		{
			name: "wavelength raw", axes: Axes{},
			x: nt.Table.Wavelengths(), y: nt.Table.Counts(),
			xLabel: WavelengthLabel, yLabel: CountLabel,
		},
		{
			name: "wavelength normalized", axes: Axes{Normalize: true},
			x: nt.Table.Wavelengths(), y: []float64{0, 1, 0.5},
			xLabel: WavelengthLabel, yLabel: NormalizedLabel,
		},
		{
			name: "energy raw", axes: Axes{Energy: true},
			x: nt.Table.Energies(), y: nt.Table.Counts(),
			xLabel: EnergyLabel, yLabel: CountLabel, reversed: true,
		},
		{
			name: "energy normalized", axes: Axes{Energy: true, Normalize: true},
			x: nt.Table.Energies(), y: []float64{0, 1, 0.5},
			xLabel: EnergyLabel, yLabel: NormalizedLabel, reversed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Project(nt.Name, nt.Table, tt.axes)
			assert.Equal(t, nt.Name, s.Name)
			assert.InDeltaSlice(t, tt.x, s.X, 1e-12)
			assert.InDeltaSlice(t, tt.y, s.Y, 1e-12)
			assert.Equal(t, tt.xLabel, s.XLabel)
			assert.Equal(t, tt.yLabel, s.YLabel)
			assert.Equal(t, tt.reversed, s.XReversed)
		})
	}
}

func TestProject_EnergyAxisPutsShortWavelengthOnTheRight(t *testing.T) {
	nt := named(t, "e.txt", "500 10\n600 30\n700 20\n")
	s := Project(nt.Name, nt.Table, Axes{Energy: true, Normalize: true})

	// 500 nm has the largest energy; with a reversed axis the largest value is drawn rightmost
	assert.True(t, s.XReversed)
	assert.Greater(t, s.X[0], s.X[1])
	assert.Greater(t, s.X[1], s.X[2])
}

func TestShift_Composition(t *testing.T) {
	s := models.Series{X: []float64{1, 2.5, -3}, Y: []float64{4, 5, 6}}
	for _, offset := range []float64{0, 1.25, -7, 1e6, math.SmallestNonzeroFloat64} {
		shifted := Shift(s, offset)
		for i := range s.X {
			assert.Equal(t, s.X[i]+offset, shifted.X[i])
		}
		assert.Equal(t, s.Y, shifted.Y)
	}
	assert.Equal(t, []float64{1, 2.5, -3}, s.X, "input must not be modified")
}

func TestLegendStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy LegendStrategy
		file     string
		want     string
	}{
		{name: "id suffix", strategy: DefaultLegend, file: "raman shift compare/sampleA1234.txt", want: "1234"},
		{name: "id suffix exact length", strategy: DefaultLegend, file: "abcd.txt", want: "abcd"},
		{name: "id suffix too short", strategy: DefaultLegend, file: "ab.txt", want: "ab"},
		{name: "id suffix custom lengths", strategy: SuffixID{IDLen: 2, ExtLen: 4}, file: "run_07.csv", want: "07"},
		{name: "stem", strategy: Stem{}, file: "/data/sample_A1.txt", want: "sample_A1"},
		{name: "trim", strategy: Trim{Prefix: "PL_", Suffix: ".txt"}, file: "PL_green.txt", want: "green"},
		{name: "trim without match", strategy: Trim{Prefix: "X_", Suffix: ".dat"}, file: "PL_green.txt", want: "PL_green.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strategy.Legend(tt.file))
		})
	}
}

func TestParseLegendStrategy(t *testing.T) {
	assert.Equal(t, DefaultLegend, ParseLegendStrategy(""))
	assert.Equal(t, DefaultLegend, ParseLegendStrategy("id"))
	assert.Equal(t, Stem{}, ParseLegendStrategy(" Stem "))
	assert.Equal(t, Trim{}, ParseLegendStrategy("name"))
}

func TestMulti(t *testing.T) {
	a := named(t, "sampleA0001.txt", "500 10\n600 30\n700 20\n")
	b := named(t, "sampleB0002.txt", "500 5\n600 15\n700 25\n")
	tables := []models.NamedTable{a, b}

	t.Run("defaults", func(t *testing.T) {
		chart, err := Multi(tables, MultiOptions{})
		require.NoError(t, err)
		require.Len(t, chart.Series, 2)
		assert.Equal(t, "0001", chart.Series[0].Name)
		assert.Equal(t, "0002", chart.Series[1].Name)
		assert.Equal(t, a.Table.Wavelengths(), chart.Series[0].X)
		assert.Equal(t, NormalizedLabel, chart.YLabel)
		assert.False(t, chart.XReversed)
		assert.Empty(t, chart.Warnings)
	})

	t.Run("shift and legend", func(t *testing.T) {
		chart, err := Multi(tables, MultiOptions{
			Energy: true,
			Shift:  []float64{0, 0.1},
			Legend: []string{"first", "second"},
		})
		require.NoError(t, err)
		assert.Equal(t, "first", chart.Series[0].Name)
		assert.Equal(t, "second", chart.Series[1].Name)
		assert.True(t, chart.XReversed)
		assert.Equal(t, EnergyLabel, chart.XLabel)
		for i, e := range b.Table.Energies() {
			assert.InDelta(t, e+0.1, chart.Series[1].X[i], 1e-12)
		}
	})

	t.Run("raw mode", func(t *testing.T) {
		chart, err := Multi(tables, MultiOptions{Mode: ModeRaw})
		require.NoError(t, err)
		assert.Equal(t, CountLabel, chart.YLabel)
		assert.Equal(t, b.Table.Counts(), chart.Series[1].Y)
	})

	t.Run("overall mode", func(t *testing.T) {
		chart, err := Multi(tables, MultiOptions{Mode: ModeOverall})
		require.NoError(t, err)
		assert.Contains(t, chart.Warnings, spectrum.OverallNormalizeWarning)
		// global bounds 5 and 30
		assert.InDeltaSlice(t, []float64{0.2, 1, 0.6}, chart.Series[0].Y, 1e-12)
		assert.InDeltaSlice(t, []float64{0, 0.4, 0.8}, chart.Series[1].Y, 1e-12)
	})

	t.Run("mismatched shift", func(t *testing.T) {
		_, err := Multi(tables, MultiOptions{Shift: []float64{1}})
		assert.ErrorIs(t, err, spectrum.ErrShiftMismatch)
	})

	t.Run("mismatched legend", func(t *testing.T) {
		_, err := Multi(tables, MultiOptions{Legend: []string{"a", "b", "c"}})
		assert.ErrorIs(t, err, spectrum.ErrLegendMismatch)
	})
}

func TestParseMode(t *testing.T) {
	for _, v := range []string{"", "normalized", "raw", "overall"} {
		_, err := ParseMode(v)
		assert.NoError(t, err, v)
	}
	_, err := ParseMode("log")
	assert.Error(t, err)
}

func TestSimple(t *testing.T) {
	a := named(t, "a.txt", "500 10\n600 30\n")
	b := named(t, "b.txt", "500 1\n600 3\n")

	chart := Simple([]models.NamedTable{a, b}, Axes{Energy: true}, true)
	assert.True(t, chart.LogY)
	assert.True(t, chart.XReversed)
	assert.Equal(t, EnergyLabel, chart.XLabel)
	assert.Equal(t, CountLabel, chart.YLabel)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "a.txt", chart.Series[0].Name)

	empty := Simple(nil, Axes{}, false)
	assert.Empty(t, empty.Series)
}

func TestSmoothPeaks(t *testing.T) {
	var tables []models.NamedTable
	for i, center := range []float64{550, 610} {
		var b strings.Builder
		for j := 0; j < 200; j++ {
			wl := 500 + float64(j)*0.75
			x := (wl - center) / 8
			fmt.Fprintf(&b, "%.3f %.5f\n", wl, 50+500*math.Exp(-x*x))
		}
		tables = append(tables, named(t, fmt.Sprintf("peak_%d.txt", i), b.String()))
	}

	chart, peaks, err := SmoothPeaks(tables, 21, 2)
	require.NoError(t, err)
	require.Len(t, peaks, 2)
	require.Len(t, chart.Markers, 2)
	assert.InDelta(t, 550, peaks[0].Wavelength, 1)
	assert.InDelta(t, 610, peaks[1].Wavelength, 1)
	assert.Equal(t, peaks[1].Wavelength, chart.Markers[1].X)
	assert.Equal(t, 1, chart.Markers[1].Color)
	assert.Equal(t, WavelengthLabel, chart.XLabel)
	assert.False(t, chart.XReversed)

	_, _, err = SmoothPeaks(tables, 500, 2)
	assert.ErrorIs(t, err, spectrum.ErrInvalidWindow)
}
