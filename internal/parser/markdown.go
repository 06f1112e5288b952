package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. The rendered HTML
// travels as the hint so ATX and setext headings keep their levels.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	decoded, err := decodeText(r)
	if err != nil {
		return doctree.Source{}, err
	}
	src := []byte(decoded)

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var buf bytes.Buffer
		writePlain(&buf, n, src)
		if t := strings.TrimSpace(buf.String()); t != "" {
			blocks = append(blocks, t)
		}
	}

	var hint bytes.Buffer
	if err := md.Renderer().Render(&hint, src, doc); err != nil {
		return doctree.Source{}, fmt.Errorf("render markdown: %w", err)
	}

	return doctree.Source{
		Title:    titleFromFilename(filename),
		Text:     strings.Join(blocks, "\n\n"),
		HTMLHint: hint.String(),
	}, nil
}

// writePlain appends the text content of a goldmark AST node. Nested
// blocks are separated by newlines; code keeps its raw lines.
func writePlain(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			buf.WriteByte('\n')
		}
		return
	case *ast.String:
		buf.Write(node.Value)
		return
	case *ast.AutoLink:
		buf.Write(node.Label(src))
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writePlain(buf, c, src)
		if c.Type() == ast.TypeBlock && c.NextSibling() != nil && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
	}
}
