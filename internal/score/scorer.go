package score

import (
	"strings"

	"github.com/rubrica/rubrica/internal/model"
)

// Scorer evaluates answer content against a rubric entry's content rules
type Scorer struct{}

// NewScorer creates a new content scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score grades a raw answer against the entry's content rules and returns the
// content score together with a human-readable rationale tag. The answer is
// normalized first, so matching is case- and whitespace-insensitive. A missing
// answer scores as the empty string; this never fails.
func (s *Scorer) Score(entry model.RubricEntry, rawAnswer string) (float64, string) {
	a := Normalize(rawAnswer)

	if entry.ScoringModeOf() == model.ModeTwoOfThree {
		return s.scoreTwoOfThree(entry.ContentRules, a)
	}

	// Standard scoring: the first fully matched alternative gives full credit.
	for _, alt := range entry.ContentRules {
		if satisfied(alt, a) {
			return 1.0, "content: full"
		}
	}
	return 0.0, "content: miss"
}

// scoreTwoOfThree treats each alternative as an independent check and maps the
// number of fully satisfied checks onto a fixed step function
func (s *Scorer) scoreTwoOfThree(checks []model.Alternative, normalized string) (float64, string) {
	hit := 0
	for _, reqs := range checks {
		if satisfied(reqs, normalized) {
			hit++
		}
	}

	switch {
	case hit >= 3:
		return 1.0, "content: full (3/3 checks)"
	case hit == 2:
		return 0.7, "content: partial (2/3 checks)"
	case hit == 1:
		return 0.3, "content: minimal (1/3 checks)"
	}
	return 0.0, "content: miss"
}

// satisfied reports whether every required substring of the alternative is
// contained in the normalized answer. Plain substring containment, not word
// boundaries: "10 minutes" also matches inside "110 minutes".
func satisfied(reqs model.Alternative, normalized string) bool {
	for _, r := range reqs {
		if !strings.Contains(normalized, Normalize(r)) {
			return false
		}
	}
	return true
}
