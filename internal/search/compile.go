package search

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternError reports a query that does not compile.
type PatternError struct {
	Query string
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Query, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Compile turns a query into a pattern. Regex queries are used verbatim,
// wildcard queries map '*' to any run of characters and '?' to any single
// character, and everything else matches literally. Matching is
// case-insensitive unless opts.MatchCase is set.
func Compile(query string, opts Options) (*regexp.Regexp, error) {
	var body string
	switch {
	case opts.UseRegex:
		body = query
	case opts.UseWildcards:
		body = wildcardBody(query)
		if opts.WholeWord {
			body = `\b` + body + `\b`
		}
	default:
		body = regexp.QuoteMeta(query)
		if opts.WholeWord {
			body = `\b` + body + `\b`
		}
	}
	if !opts.MatchCase {
		body = "(?i)" + body
	}

	re, err := regexp.Compile(body)
	if err != nil {
		return nil, &PatternError{Query: query, Err: err}
	}
	return re, nil
}

func wildcardBody(query string) string {
	body := regexp.QuoteMeta(query)
	body = strings.ReplaceAll(body, `\*`, ".*")
	return strings.ReplaceAll(body, `\?`, ".")
}
