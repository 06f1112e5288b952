package doctree

// Source is the output of an extractor: flat text plus an optional HTML
// rendering that carries heading markup.
type Source struct {
	Title    string // Document title (from metadata or filename)
	Text     string // Decoded plain text; '\f' marks an explicit page break
	HTMLHint string // Optional HTML with <h1>-<h6> headings (empty if N/A)
}

// Section is a detected heading. Bounds are byte offsets into Layout.Text
// and are inclusive for containment tests.
type Section struct {
	Level      int    `json:"level"` // 1 (top) through 6
	Title      string `json:"title"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Contains reports whether offset falls inside the section span.
func (s Section) Contains(offset int) bool {
	return offset >= s.StartIndex && offset <= s.EndIndex
}

// Page is a synthetic, budget-bounded slice of the text.
type Page struct {
	PageNumber int       `json:"page_number"`
	Content    string    `json:"content"`
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
	Sections   []Section `json:"sections"`
	LineCount  int       `json:"line_count"`
}

// Contains reports whether offset falls inside [StartIndex, EndIndex].
func (p Page) Contains(offset int) bool {
	return offset >= p.StartIndex && offset <= p.EndIndex
}

// Layout is the synthesized page/section view of one document. It is
// never mutated after construction, so it may be shared across goroutines.
type Layout struct {
	Title          string    `json:"title"`
	Text           string    `json:"text"`
	Sections       []Section `json:"sections"`
	Pages          []Page    `json:"pages"`
	TotalPages     int       `json:"total_pages"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
}

// Page returns the page with the given 1-based number.
func (l *Layout) Page(n int) (Page, bool) {
	if n < 1 || n > len(l.Pages) {
		return Page{}, false
	}
	return l.Pages[n-1], true
}

// Match is one located query occurrence.
type Match struct {
	Text          string `json:"text"`
	StartIndex    int    `json:"start_index"`
	EndIndex      int    `json:"end_index"`
	PageNumber    int    `json:"page_number"`
	LineNumber    int    `json:"line_number"`
	SectionTitle  string `json:"section_title,omitempty"`
	Context       string `json:"context"`
	BeforeContext string `json:"before_context"`
	AfterContext  string `json:"after_context"`
}

// PageChunk is a page table entry computed by another process (for example
// a per-format paginator). Its bounds need not agree with the text.
type PageChunk struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}
