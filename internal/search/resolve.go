package search

import (
	"strings"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// Tier records which rule placed an offset on a page.
type Tier int

const (
	TierWholeText   Tier = iota // no page table; page 1 of the whole text
	TierContainment             // a page's bounds contain the offset
	TierRescan                  // the query occurs in a page's content
	TierNearest                 // page with the closest boundary
)

func (t Tier) String() string {
	switch t {
	case TierWholeText:
		return "whole_text"
	case TierContainment:
		return "containment"
	case TierRescan:
		return "rescan"
	case TierNearest:
		return "nearest"
	}
	return "unknown"
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Resolution is the page an offset was attributed to.
type Resolution struct {
	PageNumber int    `json:"page_number"`
	Tier       Tier   `json:"tier"`
	Snippet    string `json:"snippet"`
}

// ResolvePage attributes offset to a page of an externally computed page
// table whose bounds may disagree with text. It always returns a page.
func ResolvePage(text, query string, offset int, caseSensitive bool, pages []doctree.PageChunk, window int) Resolution {
	if len(pages) == 0 {
		return Resolution{
			PageNumber: 1,
			Tier:       TierWholeText,
			Snippet:    Snippet(text, offset, len(query), window),
		}
	}

	for _, p := range pages {
		if offset >= p.StartIndex && offset <= p.EndIndex {
			return Resolution{
				PageNumber: p.PageNumber,
				Tier:       TierContainment,
				Snippet:    Snippet(p.Content, offset-p.StartIndex, len(query), window),
			}
		}
	}

	if strings.TrimSpace(query) != "" {
		if re, err := Compile(query, Options{MatchCase: caseSensitive}); err == nil {
			for _, p := range pages {
				if loc := re.FindStringIndex(p.Content); loc != nil {
					return Resolution{
						PageNumber: p.PageNumber,
						Tier:       TierRescan,
						Snippet:    Snippet(p.Content, loc[0], loc[1]-loc[0], window),
					}
				}
			}
		}
	}

	best, bestDist := pages[0], boundaryDistance(offset, pages[0])
	for _, p := range pages[1:] {
		if d := boundaryDistance(offset, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return Resolution{
		PageNumber: best.PageNumber,
		Tier:       TierNearest,
		Snippet:    Snippet(text, offset, len(query), window),
	}
}

func boundaryDistance(offset int, p doctree.PageChunk) int {
	return min(abs(offset-p.StartIndex), abs(offset-p.EndIndex))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Located is the first occurrence of a literal query in a text.
type Located struct {
	Offset     int        `json:"offset"`
	End        int        `json:"end"`
	LineNumber int        `json:"line_number"`
	Resolution Resolution `json:"resolution"`
}

// FindAndResolve finds the first literal occurrence of query in text and
// resolves it against pages. found is false when the query is blank or
// absent.
func FindAndResolve(text, query string, caseSensitive bool, pages []doctree.PageChunk, window int) (loc Located, found bool) {
	if strings.TrimSpace(query) == "" {
		return Located{}, false
	}
	re, err := Compile(query, Options{MatchCase: caseSensitive})
	if err != nil {
		return Located{}, false
	}
	idx := re.FindStringIndex(text)
	if idx == nil {
		return Located{}, false
	}
	return Located{
		Offset:     idx[0],
		End:        idx[1],
		LineNumber: strings.Count(text[:idx[0]], "\n") + 1,
		Resolution: ResolvePage(text, query, idx[0], caseSensitive, pages, window),
	}, true
}
