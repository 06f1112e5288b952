// Package layout synthesizes pages and a section outline over flat
// document text.
package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// Build normalizes the extracted text, detects sections, and paginates.
func Build(src doctree.Source, cfg Config) *doctree.Layout {
	cfg = cfg.withDefaults()
	text := Normalize(src.Text)
	sections := DetectSections(text, src.HTMLHint, cfg)
	pages := Paginate(text, sections, cfg)

	return &doctree.Layout{
		Title:          src.Title,
		Text:           text,
		Sections:       sections,
		Pages:          pages,
		TotalPages:     len(pages),
		WordCount:      CountWords(text),
		CharacterCount: utf8.RuneCountInString(text),
	}
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
