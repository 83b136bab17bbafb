// Package workbook is the tabular codec boundary: spreadsheet bytes in,
// row-major cells out, and back again for export. The derivation layer
// never sees file formats.
package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet exports are written to.
const SheetName = "Inscriptions"

// Decode reads a spreadsheet payload into a row-major cell grid. The
// sheet whose name contains "inscription" (case-insensitive) wins, else
// the first sheet. Unsupported or unreadable payloads are decode
// errors; the caller keeps its previous state.
func Decode(data []byte, filename string) ([][]any, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return decodeXLSX(data)
	case ".xls":
		return decodeXLS(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

func decodeXLSX(data []byte) ([][]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := pickSheet(sheets)

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	rows := make([][]any, len(raw))
	for i, r := range raw {
		row := make([]any, len(r))
		for j, c := range r {
			row[j] = c
		}
		rows[i] = row
	}
	return rows, nil
}

func decodeXLS(data []byte) ([][]any, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheet := wb.GetSheet(0)
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && strings.Contains(strings.ToLower(s.Name), "inscription") {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no readable sheet")
	}

	rows := make([][]any, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, []any{})
			continue
		}
		cells := make([]any, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func pickSheet(names []string) string {
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), "inscription") {
			return n
		}
	}
	return names[0]
}

// Encode writes the row grid to a single-sheet xlsx workbook.
func Encode(rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("bad cell coordinates %d,%d: %w", j, i, err)
			}
			if err := f.SetCellValue(SheetName, name, cell); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the dated name exported files are served as.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("SF_Inscriptions_Export_%s.xlsx", now.Format("2006-01-02"))
}
