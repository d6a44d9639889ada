package validate

import (
	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/score"
)

// Validator checks submitted citation lists against a rubric entry's accepted
// source patterns
type Validator struct{}

// NewValidator creates a new citation validator
func NewValidator() *Validator {
	return &Validator{}
}

// CitationsOK reports whether any submitted citation matches any accepted
// pattern of the entry. An empty citation list never satisfies the
// requirement. Both sides are normalized, so matching is case- and
// whitespace-insensitive. The rule set is a disjunction of acceptable
// sources: citing any one of them is enough.
func (v *Validator) CitationsOK(entry model.RubricEntry, citations []string) bool {
	if len(citations) == 0 {
		return false
	}

	// Duplicates are equivalent under existence-based matching; dedupe after
	// normalization so each distinct citation is checked once.
	seen := make(map[string]bool, len(citations))
	normalized := make([]string, 0, len(citations))
	for _, c := range citations {
		n := score.Normalize(c)
		if !seen[n] {
			seen[n] = true
			normalized = append(normalized, n)
		}
	}

	for _, pat := range entry.CiteRules {
		matchers := matchersFor(score.Normalize(pat))
		for _, c := range normalized {
			for _, m := range matchers {
				if m.Match(c) {
					return true
				}
			}
		}
	}
	return false
}
