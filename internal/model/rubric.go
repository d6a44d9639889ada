package model

// ScoringMode selects how a rubric entry's content rules are combined
type ScoringMode string

const (
	// ModeStandard grants full credit when any single alternative is fully matched
	ModeStandard ScoringMode = "standard"
	// ModeTwoOfThree treats the alternatives as three independent checks and
	// grants stepped partial credit by how many are satisfied
	ModeTwoOfThree ScoringMode = "two_of_three"
)

// Alternative is one acceptable set of required substrings; every substring
// must appear in the normalized answer for the alternative to be satisfied
type Alternative []string

// RubricEntry holds the scoring rules for a single question
type RubricEntry struct {
	ID           string        `yaml:"id" json:"id"`
	ContentRules []Alternative `yaml:"content_rules" json:"content_rules"`
	CiteRules    []string      `yaml:"cite_rules" json:"cite_rules"`
	Mode         ScoringMode   `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// ScoringModeOf returns the effective mode (entries default to standard)
func (e RubricEntry) ScoringModeOf() ScoringMode {
	if e.Mode == "" {
		return ModeStandard
	}
	return e.Mode
}

// RubricFile is the on-disk rubric schema (YAML)
type RubricFile struct {
	Version   int           `yaml:"version" json:"version"`
	Questions []RubricEntry `yaml:"questions" json:"questions"`
}
