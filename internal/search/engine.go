package search

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// Engine locates query matches in a layout. It holds no per-search state
// and is safe for concurrent use.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{cfg: cfg.withDefaults(), log: log}
}

// Search returns every non-overlapping match of query in l, in ascending
// offset order, or descending when opts.SearchBackwards is set. A blank
// query or a pattern that does not compile yields no matches.
func (e *Engine) Search(l *doctree.Layout, query string, opts Options) []doctree.Match {
	if l == nil || strings.TrimSpace(query) == "" {
		return []doctree.Match{}
	}

	re, err := Compile(query, opts)
	if err != nil {
		e.log.Warn("search pattern rejected", "query", query, "error", err)
		return []doctree.Match{}
	}

	// An empty match directly after a previous match is not reported.
	// Scanning sub-slices instead would lose the context that ^ and \b need.
	locs := re.FindAllStringIndex(l.Text, -1)
	matches := make([]doctree.Match, 0, len(locs))
	lines := lineCounter{text: l.Text, line: 1}

	for _, loc := range locs {
		start, end := loc[0], loc[1]

		page, ok := pageAt(l.Pages, start)
		if !ok {
			e.log.Debug("match outside page table dropped", "offset", start, "title", l.Title)
			continue
		}

		before := l.Text[backRunes(l.Text, start, e.cfg.ContextWindow):start]
		after := l.Text[end:forwardRunes(l.Text, end, e.cfg.ContextWindow)]
		text := l.Text[start:end]

		m := doctree.Match{
			Text:          text,
			StartIndex:    start,
			EndIndex:      end,
			PageNumber:    page.PageNumber,
			LineNumber:    lines.at(start),
			Context:       before + text + after,
			BeforeContext: before,
			AfterContext:  after,
		}
		if s, ok := sectionAt(l.Sections, start); ok {
			m.SectionTitle = s.Title
		}
		matches = append(matches, m)
	}

	if opts.SearchBackwards {
		slices.Reverse(matches)
	}
	return matches
}

// lineCounter converts ascending offsets to 1-based line numbers without
// rescanning the prefix each time.
type lineCounter struct {
	text string
	pos  int
	line int
}

func (c *lineCounter) at(offset int) int {
	if offset < c.pos {
		c.pos, c.line = 0, 1
	}
	c.line += strings.Count(c.text[c.pos:offset], "\n")
	c.pos = offset
	return c.line
}

// pageAt returns the first page whose inclusive bounds contain offset.
// Pages built by the layout package are ordered and contiguous, so a binary
// search finds it; anything else falls back to a scan.
func pageAt(pages []doctree.Page, offset int) (doctree.Page, bool) {
	i := sort.Search(len(pages), func(i int) bool { return pages[i].EndIndex >= offset })
	if i < len(pages) && pages[i].Contains(offset) {
		return pages[i], true
	}
	for _, p := range pages {
		if p.Contains(offset) {
			return p, true
		}
	}
	return doctree.Page{}, false
}

// sectionAt returns the deepest section containing offset. On equal levels
// the earlier section wins.
func sectionAt(sections []doctree.Section, offset int) (doctree.Section, bool) {
	var best doctree.Section
	found := false
	for _, s := range sections {
		if !s.Contains(offset) {
			continue
		}
		if !found || s.Level > best.Level {
			best, found = s, true
		}
	}
	return best, found
}
