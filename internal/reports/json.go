package reports

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// jsonRenderer serializes rows as an array of objects keyed by the source
// field path. Dates and decimals become strings; everything else is
// emitted verbatim as UTF-8.
type jsonRenderer struct{}

func (jsonRenderer) contentType() string { return "application/json" }
func (jsonRenderer) extension() string   { return "json" }

func (jsonRenderer) render(table Table, columns []Column, _ string) ([]byte, error) {
	rows := make([]orderedRow, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = orderedRow{columns: columns, row: row}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// orderedRow marshals one row with keys in ColumnSpec order. A plain map
// would sort keys alphabetically and lose the requested column ordering.
type orderedRow struct {
	columns []Column
	row     Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(jsonValue(o.row[col.Field]))
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue normalizes values that JSON has no native type for.
func jsonValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02")
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format("2006-01-02")
	case decimal.Decimal:
		return val.String()
	default:
		return v
	}
}
