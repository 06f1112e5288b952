package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var spaceRun = regexp.MustCompile(`\s+`)

// HTMLParser handles HTML files. The decoded markup is kept as the hint so
// <h1>-<h6> headings drive section detection.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (doctree.Source, error) {
	utf8Reader, err := charset.NewReader(r, "text/html")
	if err != nil {
		return doctree.Source{}, fmt.Errorf("detect html charset: %w", err)
	}
	raw, err := io.ReadAll(utf8Reader)
	if err != nil {
		return doctree.Source{}, fmt.Errorf("read html: %w", err)
	}
	markup := string(raw)

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return doctree.Source{}, fmt.Errorf("parse html: %w", err)
	}

	src := doctree.Source{
		Title:    titleFromFilename(filename),
		HTMLHint: markup,
	}
	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		src.Title = title
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	var w htmlText
	w.walk(root, false)
	src.Text = tidyLines(w.b.String())
	return src, nil
}

// htmlText accumulates visible text. Block elements request line breaks
// that are only emitted before the next visible text.
type htmlText struct {
	b      strings.Builder
	breaks int
}

func (w *htmlText) lineBreak(n int) {
	if w.b.Len() > 0 {
		w.breaks = max(w.breaks, n)
	}
}

func (w *htmlText) write(s string, pre bool) {
	if !pre && (w.breaks > 0 || w.b.Len() == 0) {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	w.b.WriteString(strings.Repeat("\n", w.breaks))
	w.breaks = 0
	w.b.WriteString(s)
}

func (w *htmlText) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			w.write(n.Data, true)
		} else {
			w.write(spaceRun.ReplaceAllString(n.Data, " "), false)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template", "head", "nav", "footer":
			return
		case "br":
			if w.b.Len() > 0 {
				w.breaks = min(w.breaks+1, 2)
			}
			return
		case "pre":
			pre = true
		}
	}

	brk := blockBreak(n)
	w.lineBreak(brk)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}
	w.lineBreak(brk)
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		w.write(" ", pre)
	}
}

// blockBreak is the number of newlines an element forces around itself.
func blockBreak(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.Data {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "table", "ul", "ol", "hr":
		return 2
	case "div", "li", "tr", "section", "article", "main", "header", "aside", "dt", "dd", "figure", "figcaption":
		return 1
	}
	return 0
}

// tidyLines trims every line and collapses blank runs to one empty line.
func tidyLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(spaceRun.ReplaceAllString(buf.String(), " "))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
