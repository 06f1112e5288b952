package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

var (
	colorHeader = color.New(color.FgHiMagenta, color.Bold)
	colorBold   = color.New(color.Bold)
	colorCyan   = color.New(color.FgCyan)
	colorMatch  = color.New(color.FgYellow, color.Bold)
)

type pageReport struct {
	PageNumber int      `json:"page_number" yaml:"page_number"`
	StartIndex int      `json:"start_index" yaml:"start_index"`
	EndIndex   int      `json:"end_index" yaml:"end_index"`
	LineCount  int      `json:"line_count" yaml:"line_count"`
	Sections   []string `json:"sections" yaml:"sections"`
	Content    string   `json:"content" yaml:"content"`
}

type layoutReport struct {
	Title          string       `json:"title" yaml:"title"`
	TotalPages     int          `json:"total_pages" yaml:"total_pages"`
	WordCount      int          `json:"word_count" yaml:"word_count"`
	CharacterCount int          `json:"character_count" yaml:"character_count"`
	Pages          []pageReport `json:"pages" yaml:"pages"`
}

type outlineEntry struct {
	Level      int    `json:"level" yaml:"level"`
	Title      string `json:"title" yaml:"title"`
	StartIndex int    `json:"start_index" yaml:"start_index"`
	PageNumber int    `json:"page_number" yaml:"page_number"`
}

type matchReport struct {
	Text         string `json:"text" yaml:"text"`
	StartIndex   int    `json:"start_index" yaml:"start_index"`
	EndIndex     int    `json:"end_index" yaml:"end_index"`
	PageNumber   int    `json:"page_number" yaml:"page_number"`
	LineNumber   int    `json:"line_number" yaml:"line_number"`
	SectionTitle string `json:"section_title,omitempty" yaml:"section_title,omitempty"`
	Context      string `json:"context" yaml:"context"`
}

type searchReport struct {
	Title   string        `json:"title" yaml:"title"`
	Query   string        `json:"query" yaml:"query"`
	Total   int           `json:"total" yaml:"total"`
	Matches []matchReport `json:"matches" yaml:"matches"`
}

func newLayoutReport(l *doctree.Layout) layoutReport {
	r := layoutReport{
		Title:          l.Title,
		TotalPages:     l.TotalPages,
		WordCount:      l.WordCount,
		CharacterCount: l.CharacterCount,
		Pages:          make([]pageReport, 0, len(l.Pages)),
	}
	for _, p := range l.Pages {
		titles := make([]string, 0, len(p.Sections))
		for _, s := range p.Sections {
			titles = append(titles, s.Title)
		}
		r.Pages = append(r.Pages, pageReport{
			PageNumber: p.PageNumber,
			StartIndex: p.StartIndex,
			EndIndex:   p.EndIndex,
			LineCount:  p.LineCount,
			Sections:   titles,
			Content:    p.Content,
		})
	}
	return r
}

// newOutline lists sections with the page each heading starts on.
func newOutline(l *doctree.Layout) []outlineEntry {
	out := make([]outlineEntry, 0, len(l.Sections))
	for _, s := range l.Sections {
		e := outlineEntry{Level: s.Level, Title: s.Title, StartIndex: s.StartIndex}
		for _, p := range l.Pages {
			if p.Contains(s.StartIndex) {
				e.PageNumber = p.PageNumber
				break
			}
		}
		out = append(out, e)
	}
	return out
}

func newSearchReport(l *doctree.Layout, query string, matches []doctree.Match) searchReport {
	r := searchReport{
		Title:   l.Title,
		Query:   query,
		Total:   len(matches),
		Matches: make([]matchReport, 0, len(matches)),
	}
	for _, m := range matches {
		r.Matches = append(r.Matches, matchReport{
			Text:         m.Text,
			StartIndex:   m.StartIndex,
			EndIndex:     m.EndIndex,
			PageNumber:   m.PageNumber,
			LineNumber:   m.LineNumber,
			SectionTitle: m.SectionTitle,
			Context:      m.Context,
		})
	}
	return r
}

// encode writes v as JSON or YAML. It reports false for any other format.
func encode(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	case "text", "":
		return false, nil
	}
	return true, fmt.Errorf("unknown output format %q", format)
}

func renderLayout(w io.Writer, l *doctree.Layout, format string, width int) error {
	report := newLayoutReport(l)
	if done, err := encode(w, format, report); done {
		return err
	}

	colorHeader.Fprintf(w, "%s\n", report.Title)
	fmt.Fprintf(w, "%d pages, %d words, %d characters\n", report.TotalPages, report.WordCount, report.CharacterCount)
	for _, p := range report.Pages {
		fmt.Fprintln(w)
		colorBold.Fprintf(w, "Page %d", p.PageNumber)
		fmt.Fprintf(w, " [%d-%d] %d lines\n", p.StartIndex, p.EndIndex, p.LineCount)
		if len(p.Sections) > 0 {
			colorCyan.Fprintf(w, "  sections: %s\n", strings.Join(p.Sections, ", "))
		}
		for _, line := range strings.Split(p.Content, "\n") {
			fmt.Fprintln(w, fitWidth("  "+line, width))
		}
	}
	return nil
}

func renderOutline(w io.Writer, l *doctree.Layout, format string) error {
	outline := newOutline(l)
	if done, err := encode(w, format, outline); done {
		return err
	}

	if len(outline) == 0 {
		fmt.Fprintf(w, "No sections detected in %s.\n", l.Title)
		return nil
	}
	colorHeader.Fprintf(w, "%s\n", l.Title)
	for _, e := range outline {
		indent := strings.Repeat("  ", max(e.Level-1, 0))
		fmt.Fprintf(w, "%s%s", indent, e.Title)
		colorCyan.Fprintf(w, " (page %d)\n", e.PageNumber)
	}
	return nil
}

func renderMatches(w io.Writer, l *doctree.Layout, query string, matches []doctree.Match, format string, width int) error {
	report := newSearchReport(l, query, matches)
	if done, err := encode(w, format, report); done {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(w, "No matches found for '%s'.\n", query)
		return nil
	}
	colorHeader.Fprintf(w, "Search results for '%s' in %s\n", query, l.Title)
	fmt.Fprintf(w, "Found %d matches.\n\n", len(matches))

	for i, m := range matches {
		colorBold.Fprintf(w, "%d. page %d, line %d", i+1, m.PageNumber, m.LineNumber)
		if m.SectionTitle != "" {
			colorCyan.Fprintf(w, " [%s]", m.SectionTitle)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "   %s\n", highlight(m, width-3))
	}
	return nil
}

// highlight renders a match on one line, flattening newlines and trimming
// the surrounding context so the whole line fits in width columns.
func highlight(m doctree.Match, width int) string {
	flat := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	before, text, after := flat(m.BeforeContext), flat(m.Text), flat(m.AfterContext)
	if strings.HasSuffix(m.BeforeContext, " ") || strings.HasSuffix(m.BeforeContext, "\n") {
		before += " "
	}
	if strings.HasPrefix(m.AfterContext, " ") || strings.HasPrefix(m.AfterContext, "\n") {
		after = " " + after
	}

	room := width - runewidth.StringWidth(text)
	if room > 0 {
		side := room / 2
		if aw := runewidth.StringWidth(after); aw < side {
			side = room - aw
		}
		before = truncateLeft(before, side)
		after = runewidth.Truncate(after, room-runewidth.StringWidth(before), "…")
	} else {
		before, after = "", ""
	}
	return before + colorMatch.Sprint(text) + after
}

// truncateLeft keeps the rightmost part of s that fits in width columns.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return ""
	}
	runes := []rune(s)
	cur := 1 // ellipsis
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if cur+rw > width {
			break
		}
		cur += rw
		i--
	}
	return "…" + string(runes[i:])
}

func fitWidth(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
