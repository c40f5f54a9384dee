package reports

import (
	"bytes"
	"encoding/csv"
)

// csvRenderer writes a header line of display names followed by one line
// per row in ColumnSpec order. Multi-valued cells join with ", ",
// missing values become empty fields.
type csvRenderer struct{}

func (csvRenderer) contentType() string { return "text/csv" }
func (csvRenderer) extension() string   { return "csv" }

func (csvRenderer) render(table Table, columns []Column, _ string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	line := make([]string, len(columns))
	for _, row := range table.Rows {
		for i, col := range columns {
			line[i] = cellString(row[col.Field])
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
