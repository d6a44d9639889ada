package validate

import (
	"regexp"
	"strings"
)

// Matcher reports whether a normalized citation satisfies one accepted pattern
type Matcher interface {
	Match(citation string) bool
}

// substringMatcher accepts any citation that contains the pattern
type substringMatcher struct {
	pattern string
}

func (m substringMatcher) Match(citation string) bool {
	return strings.Contains(citation, m.pattern)
}

// globMatcher accepts citations matching the shell-style glob *pattern*.
// Wildcards follow fnmatch semantics: '*' matches any run of characters
// including path separators, '?' matches exactly one character.
type globMatcher struct {
	re *regexp.Regexp
}

func newGlobMatcher(pattern string) (globMatcher, error) {
	re, err := regexp.Compile(translateGlob("*" + pattern + "*"))
	if err != nil {
		return globMatcher{}, err
	}
	return globMatcher{re: re}, nil
}

func (m globMatcher) Match(citation string) bool {
	return m.re.MatchString(citation)
}

// translateGlob converts a glob into an anchored regexp
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString("(?s)^")
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
	b.WriteString("$")
	return b.String()
}

// matchersFor builds the strategies tried for one normalized pattern, in fixed
// order: substring containment first, then the wildcard glob.
func matchersFor(pattern string) []Matcher {
	matchers := []Matcher{substringMatcher{pattern: pattern}}
	if g, err := newGlobMatcher(pattern); err == nil {
		matchers = append(matchers, g)
	}
	return matchers
}
