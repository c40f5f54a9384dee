package reports

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	// maxSheetNameLength is the spreadsheet format's hard sheet-name limit.
	maxSheetNameLength = 31
	// maxColumnWidth caps auto-sized column widths.
	maxColumnWidth = 50.0
	// headerRow is where column headers land; data starts right below.
	headerRow = 4
)

// xlsxRenderer produces one worksheet: a merged title band, a
// generation-timestamp line, a blank gap, a bold centered header row and
// the data rows, with columns auto-sized to their longest value.
type xlsxRenderer struct{}

func (xlsxRenderer) contentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (xlsxRenderer) extension() string { return "xlsx" }

func (xlsxRenderer) render(table Table, columns []Column, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheet, "A2", generatedLine()); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	// widths[i] tracks the longest stringified value per column.
	widths := make([]float64, len(columns))

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		widths[i] = float64(len(col.Header))
	}

	for rowIdx, row := range table.Rows {
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, headerRow+1+rowIdx)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, xlsxValue(row[col.Field])); err != nil {
				return nil, err
			}
			if l := float64(len(cellString(row[col.Field]))); l > widths[colIdx] {
				widths[colIdx] = l
			}
		}
	}

	for i := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := widths[i] + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// xlsxValue keeps numeric values native so spreadsheet formulas work on
// them; everything without a cell type becomes display text.
func xlsxValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case int, int32, int64, uint, uint32, uint64, float32, float64, bool, string:
		return v
	case decimal.Decimal:
		return val.InexactFloat64()
	case time.Time, *time.Time, []string:
		return cellString(v)
	default:
		return cellString(v)
	}
}

// sheetName truncates the title to the format's limit, preserving the prefix.
func sheetName(title string) string {
	runes := []rune(title)
	if len(runes) > maxSheetNameLength {
		runes = runes[:maxSheetNameLength]
	}
	name := string(runes)
	if name == "" {
		name = "Report"
	}
	return name
}
