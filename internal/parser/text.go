package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/docsearch/internal/doctree"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextParser handles plain text files.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	text, err := decodeText(r)
	if err != nil {
		return doctree.Source{}, err
	}
	return doctree.Source{
		Title: titleFromFilename(filename),
		Text:  text,
	}, nil
}

// decodeText reads r as UTF-8, honoring a UTF-8 or UTF-16 byte order mark.
// Invalid sequences become U+FFFD.
func decodeText(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(b), nil
}
