package layout

import "strings"

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\t", "    ")

// Normalize canonicalizes line endings to '\n', expands tabs to four
// spaces, and trims surrounding whitespace. Normalize is idempotent.
func Normalize(text string) string {
	return strings.TrimSpace(lineEndings.Replace(text))
}
