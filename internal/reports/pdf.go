package reports

import (
	"bytes"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// pdfMaxListItems bounds how many elements of a multi-valued cell are
// printed; the rest are dropped to keep rows on one line.
const pdfMaxListItems = 3

// pdfRenderer produces a single-flow document: title, generation
// timestamp, then one table with a shaded bold header row.
type pdfRenderer struct{}

func (pdfRenderer) contentType() string { return "application/pdf" }
func (pdfRenderer) extension() string   { return "pdf" }

func (pdfRenderer) render(table Table, columns []Column, title string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, tr(generatedLine()), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(columns))

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(200, 200, 200)
	for _, col := range columns {
		pdf.CellFormat(colWidth, 8, tr(col.Header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 243, 235)
	for i, row := range table.Rows {
		fill := i%2 == 1
		for _, col := range columns {
			pdf.CellFormat(colWidth, 7, tr(pdfCellString(row[col.Field])), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfCellString is cellString with the PDF-specific lossy rules: lists are
// truncated and decimals shown with two fraction digits.
func pdfCellString(v any) string {
	switch val := v.(type) {
	case []string:
		if len(val) > pdfMaxListItems {
			val = val[:pdfMaxListItems]
		}
		return cellString(val)
	case decimal.Decimal:
		return val.StringFixed(2)
	default:
		return cellString(v)
	}
}
