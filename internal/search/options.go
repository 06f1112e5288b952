// Package search compiles user queries and locates matches in a layout
// with page, line, and section attribution.
package search

// Options is the closed set of search switches. UseRegex takes precedence
// over UseWildcards when both are set.
type Options struct {
	MatchCase       bool `json:"match_case"`
	WholeWord       bool `json:"whole_word"`
	UseWildcards    bool `json:"use_wildcards"`
	UseRegex        bool `json:"use_regex"`
	SearchBackwards bool `json:"search_backwards"`
}

// Config controls match presentation.
type Config struct {
	ContextWindow int // Runes of context kept on each side of a match.
}

// DefaultConfig returns a 100 rune context window.
func DefaultConfig() Config {
	return Config{ContextWindow: 100}
}

func (c Config) withDefaults() Config {
	if c.ContextWindow <= 0 {
		c.ContextWindow = 100
	}
	return c
}
