package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rubrica/rubrica/internal/cache"
	"github.com/rubrica/rubrica/internal/model"
)

// Loader reads question banks and submitted answers from JSON files. With a
// cache attached, repeated loads of the same bank (batch mode grades many
// submissions against one bank pair) skip the filesystem.
type Loader struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewLoader creates a loader; a nil cache disables caching
func NewLoader(c cache.Cache, ttl time.Duration) *Loader {
	return &Loader{cache: c, ttl: ttl}
}

// LoadQuestions reads one question bank. Banks are ordered sequences of
// question records; grading only consumes the IDs.
func (l *Loader) LoadQuestions(path string) ([]model.Question, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return questions, nil
}

// LoadSubmissions reads an answers file and indexes the records by question
// ID. Records without an id are malformed and silently excluded; on duplicate
// IDs the last record wins.
func (l *Loader) LoadSubmissions(path string) (map[string]model.SubmittedAnswer, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var records []model.SubmittedAnswer
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse submissions %s: %w", path, err)
	}

	byID := make(map[string]model.SubmittedAnswer, len(records))
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		byID[r.ID] = r
	}
	return byID, nil
}

// read fetches file contents, via the cache when one is attached
func (l *Loader) read(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := cache.Key(abs)

	if l.cache != nil {
		if data, found := l.cache.Get(key); found {
			return data, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if l.cache != nil {
		_ = l.cache.Set(key, data, l.ttl)
	}
	return data, nil
}

// IDs returns the distinct question IDs of the given banks in lexicographic
// order, skipping records without an id
func IDs(banks ...[]model.Question) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, bank := range banks {
		for _, q := range bank {
			if q.ID == "" || seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			ids = append(ids, q.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
