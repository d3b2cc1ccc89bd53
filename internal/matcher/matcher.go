// Package matcher provides glob and regex pattern matching for free-text
// attachment descriptions. Patterns are compiled once to regular expressions
// so a glob '*' also spans '/' (descriptions such as "1/0 AAAC" are common).
// Compiled matchers are immutable and safe for concurrent use.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher checks inputs against one compiled pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseSensitive disables the default case-insensitive matching
	CaseSensitive bool
	// Anchored adds ^ and $ to regex patterns if not present
	Anchored bool
}

type matcher struct {
	pattern     string
	patternType PatternType
	compiled    *regexp.Regexp
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string, opts ...*Options) (Matcher, error) {
	options := &Options{}
	if len(opts) > 0 && opts[0] != nil {
		options = opts[0]
	}

	m := &matcher{pattern: pattern, patternType: patternType}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	var expr string
	switch m.patternType {
	case Glob:
		expr = GlobToRegex(pattern)
	case Regex:
		expr = pattern
		if options.Anchored {
			if !strings.HasPrefix(expr, "^") {
				expr = "^" + expr
			}
			if !strings.HasSuffix(expr, "$") {
				expr += "$"
			}
		}
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}

	if !options.CaseSensitive && !strings.HasPrefix(expr, "(?i)") {
		expr = "(?i)" + expr
	}

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern %q: %w", m.patternType, pattern, err)
	}
	m.compiled = compiled
	return m, nil
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	return m.compiled.MatchString(strings.TrimSpace(input))
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType attempts to detect if a pattern is glob or regex.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", "\\d", "\\w", "\\s", "\\b",
		"(?:", "(?i)", "{", "}", "+", "|", "(", ")",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// MultiMatcher matches when any of several patterns matches.
type MultiMatcher struct {
	matchers []Matcher
}

// NewMultiMatcher creates a matcher with multiple auto-detected patterns.
func NewMultiMatcher(patterns []string, opts ...*Options) (*MultiMatcher, error) {
	mm := &MultiMatcher{matchers: make([]Matcher, 0, len(patterns))}
	for _, pattern := range patterns {
		m, err := New(Auto, pattern, opts...)
		if err != nil {
			return nil, err
		}
		mm.matchers = append(mm.matchers, m)
	}
	return mm, nil
}

// Match returns true if any pattern matches.
func (mm *MultiMatcher) Match(input string) bool {
	for _, m := range mm.matchers {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// MatchAny returns true if any of the inputs match any pattern.
func (mm *MultiMatcher) MatchAny(inputs ...string) bool {
	for _, input := range inputs {
		if input != "" && mm.Match(input) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (mm *MultiMatcher) Len() int {
	return len(mm.matchers)
}

// Rule labels every input matched by its patterns.
type Rule struct {
	Label    string
	Patterns []string
}

// Rules is an ordered, first-match-wins classifier.
type Rules struct {
	labels   []string
	matchers []*MultiMatcher
}

// CompileRules compiles rules in order.
func CompileRules(rules []Rule, opts ...*Options) (*Rules, error) {
	compiled := &Rules{}
	for _, rule := range rules {
		mm, err := NewMultiMatcher(rule.Patterns, opts...)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Label, err)
		}
		compiled.labels = append(compiled.labels, rule.Label)
		compiled.matchers = append(compiled.matchers, mm)
	}
	return compiled, nil
}

// First returns the label of the first rule matching any of the inputs.
// Inputs are tried rule by rule, so rule order decides precedence.
func (r *Rules) First(inputs ...string) (string, bool) {
	if r == nil {
		return "", false
	}
	for i, mm := range r.matchers {
		if mm.MatchAny(inputs...) {
			return r.labels[i], true
		}
	}
	return "", false
}

// Len returns the number of rules.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.labels)
}

// GlobToRegex converts a glob pattern to an anchored regex pattern.
func GlobToRegex(glob string) string {
	var regex strings.Builder
	regex.WriteString("^")

	for i := 0; i < len(glob); i++ {
		switch glob[i] {
		case '*':
			regex.WriteString(".*")
		case '?':
			regex.WriteString(".")
		case '[':
			end := strings.IndexByte(glob[i+1:], ']')
			if end < 0 {
				regex.WriteString(`\[`)
				continue
			}
			class := glob[i+1 : i+1+end]
			if strings.HasPrefix(class, "!") || strings.HasPrefix(class, "^") {
				regex.WriteString("[^")
				class = class[1:]
			} else {
				regex.WriteString("[")
			}
			regex.WriteString(class)
			regex.WriteString("]")
			i += end + 1
		case '\\':
			if i+1 < len(glob) {
				i++
				regex.WriteString(regexp.QuoteMeta(string(glob[i])))
			}
		default:
			regex.WriteString(regexp.QuoteMeta(string(glob[i])))
		}
	}

	regex.WriteString("$")
	return regex.String()
}
