package layout

import "fmt"

// Rules selects the heading rule set used by DetectSections.
type Rules int

const (
	// RulesBasic adds the short all-caps line rule on top of RulesAdvanced.
	RulesBasic Rules = iota
	// RulesAdvanced uses only the ordered heading patterns.
	RulesAdvanced
)

func (r Rules) String() string {
	switch r {
	case RulesBasic:
		return "basic"
	case RulesAdvanced:
		return "advanced"
	}
	return fmt.Sprintf("rules(%d)", int(r))
}

// ParseRules maps a config string to a rule set.
func ParseRules(s string) (Rules, error) {
	switch s {
	case "", "basic":
		return RulesBasic, nil
	case "advanced":
		return RulesAdvanced, nil
	}
	return RulesBasic, fmt.Errorf("unknown section rules %q", s)
}

// Config controls layout synthesis.
type Config struct {
	LinesPerPage int   // Line budget per synthetic page.
	CharsPerLine int   // Nominal line width; CharsPerPage = CharsPerLine * LinesPerPage.
	Rules        Rules // Heading rule set.

	// KeepDuplicateSections keeps every detection even when two rules fire
	// on the same span. By default only the first detection survives.
	KeepDuplicateSections bool
}

// DefaultConfig returns the standard 50 line, 80 column page geometry.
func DefaultConfig() Config {
	return Config{
		LinesPerPage: 50,
		CharsPerLine: 80,
		Rules:        RulesBasic,
	}
}

// CharsPerPage is the character budget of one page.
func (c Config) CharsPerPage() int {
	return c.CharsPerLine * c.LinesPerPage
}

func (c Config) withDefaults() Config {
	if c.LinesPerPage <= 0 {
		c.LinesPerPage = 50
	}
	if c.CharsPerLine <= 0 {
		c.CharsPerLine = 80
	}
	return c
}
