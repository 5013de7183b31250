// Package export renders report tables as spreadsheet files.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of the generated workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetName = 31

// Table is a titled grid of cells. Footer, when set, is written after the
// rows in bold.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]any
	Footer  []any
}

// Workbook writes t into a single-sheet XLSX file and returns its bytes.
// Row 1 carries the title, row 2 the headers and data starts on row 3.
func Workbook(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(t.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	if len(t.Headers) > 0 {
		headers := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = h
		}
		if err := writeRow(f, sheet, 2, headers, header); err != nil {
			return nil, err
		}
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	row := 3
	for _, values := range t.Rows {
		if err := writeRow(f, sheet, row, values, 0); err != nil {
			return nil, err
		}
		row++
	}
	if len(t.Footer) > 0 {
		if err := writeRow(f, sheet, row, t.Footer, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// SheetName trims title to the 31 characters a sheet name allows.
func SheetName(title string) string {
	if title == "" {
		return "Report"
	}
	runes := []rune(title)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}
