package layout

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/docsearch/internal/doctree"
)

var (
	chapterRe   = regexp.MustCompile(`(?i)^(?:chapter|section|part)\s+\d+[:\-\s](.+)$`)
	numberedRe  = regexp.MustCompile(`^(\d+(?:\.\d+)*\.?)\s+(.+)$`)
	allCapsRe   = regexp.MustCompile(`^\p{Lu}[\p{Lu}\s]{2,}$`)
	underlineRe = regexp.MustCompile(`^[=\-]{3,}$`)
)

const (
	maxUnderlinedTitle = 50
	minCapsTitle       = 6
	maxCapsTitle       = 59
)

// DetectSections finds headings in normalized text. Headings from the HTML
// hint come first in detection order, then line patterns. The result is
// sorted by StartIndex; equal starts keep detection order.
func DetectSections(text, htmlHint string, cfg Config) []doctree.Section {
	var sections []doctree.Section
	if htmlHint != "" {
		sections = append(sections, hintSections(text, htmlHint)...)
	}
	sections = append(sections, patternSections(text, cfg.Rules)...)

	slices.SortStableFunc(sections, func(a, b doctree.Section) int {
		return a.StartIndex - b.StartIndex
	})
	if !cfg.KeepDuplicateSections {
		sections = dedupSections(sections)
	}
	return sections
}

// hintSections locates each <h1>-<h6> title of the hint inside text.
// Titles that cannot be found are dropped.
func hintSections(text, htmlHint string) []doctree.Section {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlHint))
	if err != nil {
		return nil
	}

	var out []doctree.Section
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := headingLevel(goquery.NodeName(s))
		title := strings.TrimSpace(s.Text())
		if level == 0 || title == "" {
			return
		}
		loc := regexp.MustCompile("(?i)" + regexp.QuoteMeta(title)).FindStringIndex(text)
		if loc == nil {
			return
		}
		out = append(out, doctree.Section{
			Level:      level,
			Title:      title,
			StartIndex: loc[0],
			EndIndex:   loc[1],
		})
	})
	return out
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func patternSections(text string, rules Rules) []doctree.Section {
	var out []doctree.Section
	lines := strings.Split(text, "\n")
	cursor := 0

	for i, raw := range lines {
		lineStart := cursor
		cursor += len(raw) + 1

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		start := lineStart + len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		end := start + len(line)

		var next string
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}

		if level, title, ok := matchHeading(line, next); ok {
			out = append(out, doctree.Section{Level: level, Title: title, StartIndex: start, EndIndex: end})
		}

		if rules == RulesBasic && isShortCapsLine(line) && next != "" {
			out = append(out, doctree.Section{Level: 2, Title: line, StartIndex: start, EndIndex: end})
		}
	}
	return out
}

// matchHeading tests a trimmed line against the heading patterns in
// priority order. next is the trimmed following line ("" at end of text).
func matchHeading(line, next string) (level int, title string, ok bool) {
	if m := chapterRe.FindStringSubmatch(line); m != nil {
		return 1, strings.TrimSpace(m[1]), true
	}
	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return min(strings.Count(m[1], ".")+1, 6), strings.TrimSpace(m[2]), true
	}
	if allCapsRe.MatchString(line) {
		return 1, line, true
	}
	if utf8.RuneCountInString(line) <= maxUnderlinedTitle && underlineRe.MatchString(next) {
		return 2, line, true
	}
	return 0, "", false
}

// isShortCapsLine reports a 6-59 rune line with at least one letter and no
// lowercase letters. Rules and digit runs alone do not qualify.
func isShortCapsLine(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minCapsTitle || n > maxCapsTitle || line != strings.ToUpper(line) {
		return false
	}
	return strings.IndexFunc(line, unicode.IsLetter) >= 0
}

func dedupSections(sections []doctree.Section) []doctree.Section {
	type span struct{ start, end int }
	seen := make(map[span]bool, len(sections))
	out := sections[:0]
	for _, s := range sections {
		k := span{s.StartIndex, s.EndIndex}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
