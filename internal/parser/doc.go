package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/docsearch/internal/doctree"
	"golang.org/x/text/encoding/charmap"
)

// maxNULRun is the number of consecutive NUL bytes that ends a text run
// in a legacy Word binary.
const maxNULRun = 50

// DOCParser recovers text from legacy Word (.doc) binaries by keeping
// printable Latin-1 bytes. Form feeds survive as page breaks and long NUL
// runs become line breaks.
type DOCParser struct{}

func (p *DOCParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return doctree.Source{}, fmt.Errorf("read doc: %w", err)
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(printableBytes(data))
	if err != nil {
		return doctree.Source{}, fmt.Errorf("decode doc: %w", err)
	}
	return doctree.Source{
		Title: titleFromFilename(filename),
		Text:  string(bytes.TrimSpace(text)),
	}, nil
}

func printableBytes(data []byte) []byte {
	out := make([]byte, 0, len(data)/2)
	nuls := 0
	for _, c := range data {
		if c == 0 {
			nuls++
			if nuls > maxNULRun {
				if len(out) > 0 && out[len(out)-1] != '\n' {
					out = append(out, '\n')
				}
				nuls = 0
			}
			continue
		}
		nuls = 0

		switch {
		case c >= 32 && c <= 126, c >= 160:
			out = append(out, c)
		case c == '\t', c == '\n', c == '\r', c == '\f':
			out = append(out, c)
		}
	}
	return out
}
