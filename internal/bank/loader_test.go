package bank

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rubrica/rubrica/internal/cache"
	"github.com/rubrica/rubrica/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoader_LoadQuestions(t *testing.T) {
	path := writeFile(t, "gold.json", `[
		{"id": "G1", "question": "How do you collect a support bundle?"},
		{"id": "G2", "question": "The device clock drifts. What do you check?"}
	]`)

	loader := NewLoader(nil, 0)
	questions, err := loader.LoadQuestions(path)
	if err != nil {
		t.Fatalf("LoadQuestions failed: %v", err)
	}

	if len(questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(questions))
	}
	if questions[0].ID != "G1" {
		t.Errorf("Expected first question G1, got %q", questions[0].ID)
	}
}

func TestLoader_LoadQuestions_MissingFile(t *testing.T) {
	loader := NewLoader(nil, 0)
	if _, err := loader.LoadQuestions(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing bank file")
	}
}

func TestLoader_LoadSubmissions_ExcludesMalformed(t *testing.T) {
	path := writeFile(t, "answers.json", `[
		{"id": "G1", "answer": "Run support bundle.", "citations": ["docs/cli_reference.md"]},
		{"answer": "no id on this record", "citations": []},
		{"id": "G2", "answer": "Check NTP.", "citations": []}
	]`)

	loader := NewLoader(nil, 0)
	subs, err := loader.LoadSubmissions(path)
	if err != nil {
		t.Fatalf("LoadSubmissions failed: %v", err)
	}

	if len(subs) != 2 {
		t.Fatalf("Expected 2 indexed submissions, got %d", len(subs))
	}
	if _, ok := subs["G1"]; !ok {
		t.Error("Expected G1 to be indexed")
	}
	if _, ok := subs[""]; ok {
		t.Error("Record without id must not be indexed")
	}
}

func TestLoader_UsesCache(t *testing.T) {
	path := writeFile(t, "gold.json", `[{"id": "G1"}]`)

	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	loader := NewLoader(mem, time.Minute)

	if _, err := loader.LoadQuestions(path); err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	// Remove the file; the second load must be served from cache.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove fixture: %v", err)
	}

	questions, err := loader.LoadQuestions(path)
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "G1" {
		t.Errorf("Unexpected cached result: %v", questions)
	}
}

func TestIDs_UnionSortedDeduped(t *testing.T) {
	gold := []model.Question{{ID: "G2"}, {ID: "G1"}, {ID: ""}}
	hidden := []model.Question{{ID: "H1"}, {ID: "G1"}}

	ids := IDs(gold, hidden)

	want := []string{"G1", "G2", "H1"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, ids)
		}
	}
}
