package reports

import (
	"bytes"

	"github.com/fumiama/go-docx"
)

// docxRenderer produces a heading, a generation-timestamp paragraph and a
// grid table with one header row plus one row per record. All cell values
// are stringified the same way CSV flattens them.
type docxRenderer struct{}

func (docxRenderer) contentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (docxRenderer) extension() string { return "docx" }

func (docxRenderer) render(table Table, columns []Column, title string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Size("40")
	doc.AddParagraph().AddText(generatedLine())

	grid := doc.AddTable(len(table.Rows)+1, len(columns), 9000, nil)

	for j, col := range columns {
		grid.TableRows[0].TableCells[j].AddParagraph().AddText(col.Header)
	}
	for i, row := range table.Rows {
		for j, col := range columns {
			grid.TableRows[i+1].TableCells[j].AddParagraph().AddText(cellString(row[col.Field]))
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
