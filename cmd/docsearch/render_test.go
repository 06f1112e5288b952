package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/dgallion1/docsearch/internal/layout"
	"github.com/dgallion1/docsearch/internal/search"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

func init() {
	color.NoColor = true
}

func sampleLayout() *doctree.Layout {
	text := "INTRODUCTION\nThe quick brown fox.\n1.1 Details\nIt jumps over the lazy dog."
	return layout.Build(doctree.Source{Title: "Sample", Text: text}, layout.Config{LinesPerPage: 2, CharsPerLine: 80})
}

func TestRenderOutline_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := renderOutline(&buf, sampleLayout(), "text"); err != nil {
		t.Fatal(err)
	}
	want := "Sample\nINTRODUCTION (page 1)\n  Details (page 2)\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestRenderOutline_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderOutline(&buf, sampleLayout(), "json"); err != nil {
		t.Fatal(err)
	}
	var got []outlineEntry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got) != 2 || got[1].Level != 2 || got[1].PageNumber != 2 {
		t.Errorf("unexpected outline %+v", got)
	}
}

func TestRenderLayout_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := renderLayout(&buf, sampleLayout(), "yaml", 80); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"title: Sample", "total_pages: 2", "page_number: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected YAML to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := renderOutline(&buf, sampleLayout(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderMatches_Text(t *testing.T) {
	l := sampleLayout()
	matches := search.NewEngine(search.DefaultConfig(), nil).Search(l, "lazy", search.Options{})

	var buf bytes.Buffer
	if err := renderMatches(&buf, l, "lazy", matches, "text", 80); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "1. page 2, line 4\n") {
		t.Errorf("expected attribution line, got:\n%s", out)
	}
	if !strings.Contains(out, "over the lazy dog.") {
		t.Errorf("expected context, got:\n%s", out)
	}

	matches = search.NewEngine(search.DefaultConfig(), nil).Search(l, "details", search.Options{})
	buf.Reset()
	renderMatches(&buf, l, "details", matches, "text", 80)
	if !strings.Contains(buf.String(), "1. page 2, line 3 [Details]") {
		t.Errorf("expected heading match tagged with its section, got:\n%s", buf.String())
	}
}

func TestRenderMatches_None(t *testing.T) {
	var buf bytes.Buffer
	if err := renderMatches(&buf, sampleLayout(), "zebra", nil, "text", 80); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No matches found for 'zebra'.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestHighlight_FitsWidth(t *testing.T) {
	m := doctree.Match{
		Text:          "needle",
		BeforeContext: strings.Repeat("hay ", 40),
		AfterContext:  " " + strings.Repeat("stack ", 40),
	}
	for _, width := range []int{20, 40, 77} {
		got := highlight(m, width)
		if w := runewidth.StringWidth(got); w > width {
			t.Errorf("width %d: got %d columns: %q", width, w, got)
		}
		if !strings.Contains(got, "needle") {
			t.Errorf("width %d: match missing from %q", width, got)
		}
	}
}

func TestHighlight_FlattensNewlines(t *testing.T) {
	m := doctree.Match{Text: "b", BeforeContext: "a\n", AfterContext: "\nc"}
	if got := highlight(m, 80); got != "a b c" {
		t.Errorf("expected %q, got %q", "a b c", got)
	}
}

func TestTruncateLeft(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 4, "…def"},
		{"abcdef", 1, ""},
	}
	for _, tc := range cases {
		if got := truncateLeft(tc.in, tc.width); got != tc.want {
			t.Errorf("truncateLeft(%q, %d): expected %q, got %q", tc.in, tc.width, tc.want, got)
		}
	}
}
