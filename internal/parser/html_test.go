package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_VisibleTextByBlock(t *testing.T) {
	input := `<html><head><title>My Page</title><style>p { color: red }</style></head>
<body>
<nav>Home | About</nav>
<h1>Welcome</h1>
<p>Hello <b>brave</b>   world.</p>
<script>var x = 1;</script>
<ul><li>one</li><li>two</li></ul>
</body></html>`

	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.Title != "My Page" {
		t.Errorf("expected title %q, got %q", "My Page", src.Title)
	}
	want := "Welcome\n\nHello brave world.\n\none\ntwo"
	if src.Text != want {
		t.Errorf("expected text %q, got %q", want, src.Text)
	}
	if !strings.Contains(src.HTMLHint, "<h1>Welcome</h1>") {
		t.Errorf("expected hint to carry the markup, got %q", src.HTMLHint)
	}
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader("<p>body only</p>"), "notes.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", src.Title)
	}
	if src.Text != "body only" {
		t.Errorf("expected %q, got %q", "body only", src.Text)
	}
}

func TestHTMLParser_DeclaredCharset(t *testing.T) {
	input := "<html><head><meta charset=\"iso-8859-1\"></head><body><p>caf\xe9</p></body></html>"
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "latin.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Text != "café" {
		t.Errorf("expected %q, got %q", "café", src.Text)
	}
}

func TestHTMLParser_TableCellsAndPre(t *testing.T) {
	input := "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table><pre>x  y</pre>"
	p := &HTMLParser{}
	src, err := p.Parse(strings.NewReader(input), "t.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a b\nc d\n\nx  y"
	if src.Text != want {
		t.Errorf("expected %q, got %q", want, src.Text)
	}
}
