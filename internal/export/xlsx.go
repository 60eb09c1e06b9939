// Package export writes loaded tables to spreadsheet formats
package export

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/RMahshie/specplot/pkg/models"
)

// ContentTypeXLSX is the MIME type of the workbook produced by WriteXLSX
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Headers are the column titles of every sheet
var Headers = []string{"wavelength_nm", "count", "normalized", "energy_eV"}

// WriteXLSX writes one sheet per table with the raw and derived columns
func WriteXLSX(w io.Writer, tables []models.NamedTable) error {
	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]int)
	for i, nt := range tables {
		sheet := sheetName(nt.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		for c, h := range Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		for r, s := range nt.Table.Samples {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			row := []interface{}{s.Wavelength, s.Count, s.Normalized, s.Energy}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("write row %d of %s: %w", r+1, sheet, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// XLSXBytes is WriteXLSX into memory
func XLSXBytes(tables []models.NamedTable) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, tables); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sheetName derives a unique, Excel-safe sheet name from a file name
func sheetName(name string, used map[string]int) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, base)
	if base == "" {
		base = "table"
	}
	if runes := []rune(base); len(runes) > 28 {
		base = string(runes[:28])
	}

	used[base]++
	if n := used[base]; n > 1 {
		return fmt.Sprintf("%s~%d", base, n)
	}
	return base
}
