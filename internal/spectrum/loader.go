package spectrum

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RMahshie/specplot/pkg/models"
)

// Loader parses measurement files using a fixed set of physical constants
type Loader struct {
	Constants Constants
}

// NewLoader creates a loader with the default constants
func NewLoader() *Loader {
	return &Loader{Constants: DefaultConstants}
}

// ReadData parses whitespace-separated wavelength/count rows with no header.
// Blank lines are skipped. The normalized and energy columns are filled before
// returning; a file whose counts are all equal fails with *DegenerateRangeError.
func (l *Loader) ReadData(r io.Reader, source string) (models.Table, error) {
	var samples []models.Sample

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text,
				Reason: fmt.Sprintf("expected 2 columns, got %d", len(fields))}
		}

		wavelength, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text, Reason: "wavelength is not numeric"}
		}
		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text, Reason: "count is not numeric"}
		}
		if math.IsNaN(wavelength) || math.IsInf(wavelength, 0) {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text, Reason: "wavelength is not finite"}
		}
		if math.IsNaN(count) || math.IsInf(count, 0) {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text, Reason: "count is not finite"}
		}
		if wavelength <= 0 {
			return models.Table{}, &ParseError{Source: source, Line: line, Text: text, Reason: "wavelength must be positive"}
		}

		samples = append(samples, models.Sample{
			Wavelength: wavelength,
			Count:      count,
			Energy:     l.Constants.Energy(wavelength),
		})
	}
	if err := scanner.Err(); err != nil {
		return models.Table{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	if len(samples) == 0 {
		return models.Table{}, &ParseError{Source: source, Reason: "no samples"}
	}

	table := models.Table{Samples: samples}
	lo, hi := CountRange(table)
	if err := normalizeInto(table, lo, hi, source); err != nil {
		return models.Table{}, err
	}
	return table, nil
}

// ReadFile opens path and parses it with ReadData
func (l *Loader) ReadFile(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer f.Close()

	return l.ReadData(f, filepath.Base(path))
}

// ReadNamed loads each path into a NamedTable keyed by its file name, stopping at the first error
func (l *Loader) ReadNamed(paths []string) ([]models.NamedTable, error) {
	tables := make([]models.NamedTable, 0, len(paths))
	for _, p := range paths {
		t, err := l.ReadFile(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, models.NamedTable{Name: filepath.Base(p), Table: t})
	}
	return tables, nil
}

// ReadData parses r with the default constants
func ReadData(r io.Reader, source string) (models.Table, error) {
	return NewLoader().ReadData(r, source)
}
