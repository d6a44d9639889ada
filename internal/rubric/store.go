package rubric

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rubrica/rubrica/internal/model"
)

//go:embed default_rubric.yaml
var defaultRubricYAML []byte

// Store is an immutable mapping from question ID to its scoring rules.
// It is built once at startup and never mutated during a run.
type Store struct {
	version int
	entries map[string]model.RubricEntry
}

// Default loads the rubric embedded in the binary
func Default() (*Store, error) {
	return parse(defaultRubricYAML)
}

// Load reads a rubric file from disk
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}
	store, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("rubric %s: %w", path, err)
	}
	return store, nil
}

func parse(data []byte) (*Store, error) {
	var file model.RubricFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rubric: %w", err)
	}

	entries := make(map[string]model.RubricEntry, len(file.Questions))
	for _, q := range file.Questions {
		if err := validateEntry(q); err != nil {
			return nil, err
		}
		if _, dup := entries[q.ID]; dup {
			return nil, fmt.Errorf("duplicate rubric entry %q", q.ID)
		}
		entries[q.ID] = q
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("rubric defines no questions")
	}

	return &Store{version: file.Version, entries: entries}, nil
}

// validateEntry checks structural invariants at load time so scoring code can
// assume them later
func validateEntry(e model.RubricEntry) error {
	if e.ID == "" {
		return fmt.Errorf("rubric entry without id")
	}
	if len(e.ContentRules) == 0 {
		return fmt.Errorf("rubric entry %q: no content rules", e.ID)
	}
	for i, alt := range e.ContentRules {
		if len(alt) == 0 {
			return fmt.Errorf("rubric entry %q: alternative %d is empty", e.ID, i)
		}
		for _, req := range alt {
			if req == "" {
				return fmt.Errorf("rubric entry %q: alternative %d has an empty substring", e.ID, i)
			}
		}
	}
	if len(e.CiteRules) == 0 {
		return fmt.Errorf("rubric entry %q: no citation patterns", e.ID)
	}

	switch e.ScoringModeOf() {
	case model.ModeStandard:
		// any positive number of alternatives
	case model.ModeTwoOfThree:
		if len(e.ContentRules) != 3 {
			return fmt.Errorf("rubric entry %q: two_of_three requires exactly 3 checks, got %d",
				e.ID, len(e.ContentRules))
		}
	default:
		return fmt.Errorf("rubric entry %q: unknown scoring mode %q", e.ID, e.Mode)
	}

	return nil
}

// Get returns the rubric entry for a question ID
func (s *Store) Get(id string) (model.RubricEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Has reports whether the store covers a question ID
func (s *Store) Has(id string) bool {
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of questions the rubric covers
func (s *Store) Len() int {
	return len(s.entries)
}

// Version returns the rubric schema version
func (s *Store) Version() int {
	return s.version
}

// IDs returns the covered question IDs in lexicographic order
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// File returns a copy of the rubric in file form, entries sorted by ID.
// Used by `rubric show` to render the effective rubric.
func (s *Store) File() model.RubricFile {
	file := model.RubricFile{Version: s.version}
	for _, id := range s.IDs() {
		file.Questions = append(file.Questions, s.entries[id])
	}
	return file
}
