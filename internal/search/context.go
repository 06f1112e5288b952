package search

import (
	"strings"
	"unicode/utf8"
)

// backRunes returns the offset n runes before end, stopping at 0.
func backRunes(s string, end, n int) int {
	i := end
	for k := 0; k < n && i > 0; k++ {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// forwardRunes returns the offset n runes after start, stopping at len(s).
func forwardRunes(s string, start, n int) int {
	i := start
	for k := 0; k < n && i < len(s); k++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// Snippet returns up to window runes either side of text[pos:pos+length],
// trimmed, with "..." marking a side that was clipped.
func Snippet(text string, pos, length, window int) string {
	pos = max(0, min(pos, len(text)))
	end := max(pos, min(pos+length, len(text)))

	from := backRunes(text, pos, window)
	to := forwardRunes(text, end, window)

	snippet := strings.TrimSpace(text[from:to])
	if from > 0 {
		snippet = "..." + snippet
	}
	if to < len(text) {
		snippet += "..."
	}
	return snippet
}
