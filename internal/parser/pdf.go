package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled. Pages are separated by form
// feeds so the layout keeps the native page breaks.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsearch-pdf-*.pdf")
	if err != nil {
		return doctree.Source{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return doctree.Source{}, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	src := doctree.Source{Title: titleFromFilename(filename)}

	text, title, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return doctree.Source{}, fmt.Errorf("extract pdf text: %w", err)
	}
	if title != "" {
		src.Title = title
	}
	src.Text = strings.TrimRight(text, "\f\n ")
	return src, nil
}

func extractPDFText(path string) (text, title string, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(pageText)
	}
	return buf.String(), title, nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
