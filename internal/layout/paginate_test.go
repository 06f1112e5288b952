package layout

import (
	"strings"
	"testing"

	"github.com/dgallion1/docsearch/internal/doctree"
)

func makeLines(n, width int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = strings.Repeat("x", width)
	}
	return strings.Join(lines, "\n")
}

func checkCoverage(t *testing.T, text string, pages []doctree.Page) {
	t.Helper()
	if len(pages) == 0 {
		t.Fatal("expected at least one page")
	}
	if pages[0].StartIndex != 0 {
		t.Errorf("expected first page to start at 0, got %d", pages[0].StartIndex)
	}
	if last := pages[len(pages)-1]; last.EndIndex != len(text) {
		t.Errorf("expected last page to end at %d, got %d", len(text), last.EndIndex)
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			t.Errorf("page %d: expected number %d, got %d", i, i+1, p.PageNumber)
		}
		if p.Content != text[p.StartIndex:p.EndIndex] {
			t.Errorf("page %d: content does not match its text slice", p.PageNumber)
		}
		if i > 0 && pages[i-1].EndIndex+1 != p.StartIndex {
			t.Errorf("page %d: expected start %d, got %d", p.PageNumber, pages[i-1].EndIndex+1, p.StartIndex)
		}
	}
}

func TestPaginate_ExactlyAtLineBudget(t *testing.T) {
	text := makeLines(50, 10)
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].LineCount != 50 {
		t.Errorf("expected 50 lines, got %d", pages[0].LineCount)
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_OneLineOverBudget(t *testing.T) {
	text := makeLines(51, 10)
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].LineCount != 50 {
		t.Errorf("expected page 1 to hold 50 lines, got %d", pages[0].LineCount)
	}
	if pages[1].LineCount != 1 {
		t.Errorf("expected page 2 to hold 1 line, got %d", pages[1].LineCount)
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_CharacterBudget(t *testing.T) {
	// 10 lines of 399 runes: each line costs 400 with its newline.
	text := makeLines(12, 399)
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].LineCount != 10 {
		t.Errorf("expected 10 lines on page 1, got %d", pages[0].LineCount)
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_CustomBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinesPerPage = 3
	text := makeLines(7, 5)
	pages := Paginate(text, nil, cfg)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_ExplicitPageBreak(t *testing.T) {
	text := "first page\nstill first\fsecond page\nmore second"
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Content != "first page\nstill first" {
		t.Errorf("unexpected page 1 content %q", pages[0].Content)
	}
	if pages[1].Content != "second page\nmore second" {
		t.Errorf("unexpected page 2 content %q", pages[1].Content)
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_BreakAtEndOfLine(t *testing.T) {
	text := "alpha\f\nbeta"
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].Content != "alpha" {
		t.Errorf("unexpected page 1 content %q", pages[0].Content)
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_MultipleBreaksOnOneLine(t *testing.T) {
	text := "a\fb\fc"
	pages := Paginate(text, nil, DefaultConfig())
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for i, want := range []string{"a", "b", "c"} {
		if pages[i].Content != want {
			t.Errorf("page %d: expected %q, got %q", i+1, want, pages[i].Content)
		}
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_EmptyText(t *testing.T) {
	pages := Paginate("", nil, DefaultConfig())
	if len(pages) != 1 {
		t.Fatalf("expected 1 page for empty text, got %d", len(pages))
	}
	if pages[0].StartIndex != 0 || pages[0].EndIndex != 0 {
		t.Errorf("expected [0,0], got [%d,%d]", pages[0].StartIndex, pages[0].EndIndex)
	}
}

func TestPaginate_MultibyteRunesCountOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CharsPerLine = 2
	cfg.LinesPerPage = 10 // 20 rune budget
	// Each line is 9 runes but 18 bytes; two lines fit (9+1+9+1 = 20).
	line := strings.Repeat("é", 9)
	text := strings.Join([]string{line, line, line}, "\n")
	pages := Paginate(text, nil, cfg)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	checkCoverage(t, text, pages)
}

func TestPaginate_AttachesSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinesPerPage = 2
	text := "Chapter 1: One\nbody\nChapter 2: Two\nbody"
	sections := DetectSections(text, "", cfg)
	pages := Paginate(text, sections, cfg)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Sections) != 1 || pages[0].Sections[0].Title != "One" {
		t.Errorf("unexpected page 1 sections %+v", pages[0].Sections)
	}
	if len(pages[1].Sections) != 1 || pages[1].Sections[0].Title != "Two" {
		t.Errorf("unexpected page 2 sections %+v", pages[1].Sections)
	}
}

func TestBuild_Summaries(t *testing.T) {
	l := Build(doctree.Source{Title: "memo", Text: "\r\nHello brave\tworld\r\n"}, DefaultConfig())
	if l.Text != "Hello brave    world" {
		t.Errorf("unexpected normalized text %q", l.Text)
	}
	if l.WordCount != 3 {
		t.Errorf("expected 3 words, got %d", l.WordCount)
	}
	if l.CharacterCount != len(l.Text) {
		t.Errorf("expected %d characters, got %d", len(l.Text), l.CharacterCount)
	}
	if l.TotalPages != len(l.Pages) || l.TotalPages != 1 {
		t.Errorf("expected 1 page, got total=%d len=%d", l.TotalPages, len(l.Pages))
	}
	if l.Title != "memo" {
		t.Errorf("expected title %q, got %q", "memo", l.Title)
	}
}

func TestBuild_ZeroConfigUsesDefaults(t *testing.T) {
	l := Build(doctree.Source{Text: makeLines(51, 10)}, Config{})
	if l.TotalPages != 2 {
		t.Errorf("expected 2 pages with default budgets, got %d", l.TotalPages)
	}
}
