package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// CSVParser handles CSV files. Each data row becomes one line of
// "header: value" pairs so matches land on the row's line number.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	text, err := decodeText(r)
	if err != nil {
		return doctree.Source{}, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return doctree.Source{}, fmt.Errorf("parse csv: %w", err)
	}

	src := doctree.Source{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return src, nil
	}

	// First row is headers.
	headers := records[0]

	var b strings.Builder
	b.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
	for _, row := range records[1:] {
		b.WriteString("\n")
		for j, cell := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			if j < len(headers) {
				b.WriteString(headers[j] + ": " + cell)
			} else {
				b.WriteString(cell)
			}
		}
	}
	src.Text = b.String()
	return src, nil
}
