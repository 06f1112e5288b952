package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// PageBreak is the explicit page-break marker extractors emit.
const PageBreak = '\f'

// Paginate groups the lines of normalized text into synthetic pages under
// the line and character budgets of cfg, splitting at PageBreak markers.
// Pages cover the text without gaps: each page's EndIndex+1 is the next
// page's StartIndex and Content is always text[StartIndex:EndIndex].
func Paginate(text string, sections []doctree.Section, cfg Config) []doctree.Page {
	cfg = cfg.withDefaults()
	p := &paginator{text: text, sections: sections}
	charsPerPage := cfg.CharsPerPage()

	cursor := 0
	for _, line := range strings.Split(text, "\n") {
		lineStart := cursor
		cursor += len(line) + 1

		// Would adding this line exceed the page budget?
		if p.lines > 0 && (p.lines >= cfg.LinesPerPage || p.runes+utf8.RuneCountInString(line)+1 > charsPerPage) {
			p.flush()
		}

		if strings.IndexRune(line, PageBreak) < 0 {
			p.add(lineStart, line)
			continue
		}

		parts := strings.Split(line, string(PageBreak))
		offset := lineStart
		for _, part := range parts[:len(parts)-1] {
			p.add(offset, part)
			p.flush()
			offset += len(part) + 1
		}
		if last := parts[len(parts)-1]; last != "" {
			p.add(offset, last)
		}
	}

	if p.lines > 0 {
		p.flush()
	}
	return p.pages
}

// paginator accumulates line segments for the page being built.
type paginator struct {
	text     string
	sections []doctree.Section
	pages    []doctree.Page

	start int // offset of the current page
	end   int // end offset of the last buffered segment
	lines int
	runes int
}

func (p *paginator) add(offset int, segment string) {
	if p.lines == 0 {
		p.end = p.start
	}
	segEnd := offset + len(segment)
	p.runes += utf8.RuneCountInString(p.text[p.end:segEnd])
	p.end = segEnd
	p.lines++
}

func (p *paginator) flush() {
	p.pages = append(p.pages, doctree.Page{
		PageNumber: len(p.pages) + 1,
		Content:    p.text[p.start:p.end],
		StartIndex: p.start,
		EndIndex:   p.end,
		Sections:   SectionsForPage(p.sections, p.start, p.end),
		LineCount:  p.lines,
	})
	p.start = p.end + 1
	p.end = p.start
	p.lines = 0
	p.runes = 0
}

// SectionsForPage returns the sections whose span touches [start, end]:
// starting inside it, ending inside it, or spanning it entirely.
func SectionsForPage(sections []doctree.Section, start, end int) []doctree.Section {
	var out []doctree.Section
	for _, s := range sections {
		if (s.StartIndex >= start && s.StartIndex <= end) ||
			(s.EndIndex >= start && s.EndIndex <= end) ||
			(s.StartIndex <= start && s.EndIndex >= end) {
			out = append(out, s)
		}
	}
	return out
}
