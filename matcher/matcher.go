// Package matcher compiles a (term, mode, case-folding, fuzzy-threshold)
// configuration into a reusable line predicate.
package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Mode selects how a term is interpreted against each candidate line.
type Mode string

const (
	Literal  Mode = "literal"
	Wildcard Mode = "wildcard"
	Regex    Mode = "regex"
	Fuzzy    Mode = "fuzzy"
)

// DefaultFuzzyThreshold is the conventional fuzzy threshold. Compile does
// not substitute it: the threshold passed to Compile is always the one used.
const DefaultFuzzyThreshold = 0.75

var (
	ErrUnsupportedMode        = errors.New("matcher: unsupported mode")
	ErrInvalidRegex           = errors.New("matcher: invalid regex")
	ErrInvalidFuzzyThreshold  = errors.New("matcher: fuzzy threshold must be within [0, 1]")
)

// Matcher is a compiled, reusable line predicate.
type Matcher interface {
	Match(line string) bool
}

// matchFunc adapts a plain function to the Matcher interface.
type matchFunc func(line string) bool

func (f matchFunc) Match(line string) bool { return f(line) }

// Compile validates (term, mode, ignoreCase, fuzzyThreshold) and returns a
// compiled Matcher. Compilation cost (regex compile, term lower-casing) is
// paid once, here, not per line.
func Compile(term string, mode Mode, ignoreCase bool, fuzzyThreshold float64) (Matcher, error) {
	switch mode {
	case Literal:
		return compileLiteral(term, ignoreCase), nil
	case Wildcard:
		return compileWildcard(term, ignoreCase)
	case Regex:
		return compileRegex(term, ignoreCase)
	case Fuzzy:
		return compileFuzzy(term, ignoreCase, fuzzyThreshold)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

func compileLiteral(term string, ignoreCase bool) Matcher {
	needle := term
	if ignoreCase {
		needle = strings.ToLower(needle)
	}
	return matchFunc(func(line string) bool {
		if ignoreCase {
			line = strings.ToLower(line)
		}
		return strings.Contains(line, needle)
	})
}

// wildcardToRegex escapes every rune of pattern except '*' (-> ".*") and
// '?' (-> "."), producing a regex source with only those two metacharacters
// active.
func wildcardToRegex(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}

func compileWildcard(term string, ignoreCase bool) (Matcher, error) {
	src := wildcardToRegex(term)
	if ignoreCase {
		src = "(?i)" + src
	}
	// Escaped literal runes plus '.'/'.*'  are always valid regex source;
	// a failure here would be a bug in wildcardToRegex, not user input.
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("matcher: internal wildcard compile failure: %w", err)
	}
	return matchFunc(re.MatchString), nil
}

func compileRegex(term string, ignoreCase bool) (Matcher, error) {
	src := term
	if ignoreCase {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRegex, err)
	}
	return matchFunc(re.MatchString), nil
}

func compileFuzzy(term string, ignoreCase bool, threshold float64) (Matcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFuzzyThreshold, threshold)
	}
	needle := term
	if ignoreCase {
		needle = strings.ToLower(needle)
	}
	return matchFunc(func(line string) bool {
		candidate := line
		if ignoreCase {
			candidate = strings.ToLower(candidate)
		}
		return partialRatio(needle, candidate, threshold) >= threshold
	}), nil
}
