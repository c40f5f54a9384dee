// Package reports renders tabular query results into downloadable
// documents. A report is a Table (ordered rows of named values) plus a
// ColumnSpec mapping source field paths to display headers; Export turns
// the pair into one of five encodings without ever mutating the input.
package reports

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abolmasow/electronic-library/internal/utils"
)

// Row maps a source field path (e.g. "book.title") to a value. Values may
// be scalars, a []string for multi-valued relations, or nil.
type Row map[string]any

// Table is an ordered sequence of rows sharing one column set.
type Table struct {
	Rows []Row
}

// Column pairs a source field path with its human-readable header.
type Column struct {
	Field  string
	Header string
}

// Format selects the output encoding. It never affects the table content.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

// ErrInvalidFormat is returned for format values outside the enumeration.
var ErrInvalidFormat = errors.New("invalid export format")

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatPDF, FormatDOCX, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// Document is a rendered export with its caller-facing response metadata.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// renderer is implemented once per format.
type renderer interface {
	render(table Table, columns []Column, title string) ([]byte, error)
	contentType() string
	extension() string
}

var renderers = map[Format]renderer{
	FormatJSON: jsonRenderer{},
	FormatCSV:  csvRenderer{},
	FormatPDF:  pdfRenderer{},
	FormatDOCX: docxRenderer{},
	FormatXLSX: xlsxRenderer{},
}

// Export renders the table into the requested format. The same table and
// columns always produce the same set of (row, header) -> value pairs in
// every format, up to the per-format flattening rules.
func Export(table Table, columns []Column, format Format, title string) (Document, error) {
	r, ok := renderers[format]
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	data, err := r.render(table, columns, title)
	if err != nil {
		return Document{}, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	name := utils.SanitizeFilename(title)
	if name == "" {
		name = "export"
	}

	return Document{
		Data:        data,
		ContentType: r.contentType(),
		Filename:    name + "." + r.extension(),
	}, nil
}

const generatedAtLayout = "2006-01-02 15:04"

func generatedLine() string {
	return "Generated: " + time.Now().Format(generatedAtLayout)
}

// cellString renders any cell value as display text. Missing values and
// nils become empty strings, multi-valued cells join with ", ".
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format("2006-01-02")
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
