package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/pipeline"
)

// MockRunner implements the Runner interface
type MockRunner struct {
	ShouldError bool
}

func (m *MockRunner) Run(ctx context.Context, answersPath string, includeHidden bool) (*pipeline.RunResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("grading error")
	}
	mode := pipeline.ModeGoldOnly
	if includeHidden {
		mode = pipeline.ModeGoldHidden
	}
	return &pipeline.RunResult{
		Report: model.GradingReport{
			Total:    2.0,
			MaxTotal: 2.0,
			Results: []model.GradeResult{
				{ID: "G1", Score: 2.0, ContentScore: 1.0, CitationScore: 1.0, ContentMsg: "content: full", CitationsOK: true},
			},
		},
		Mode: mode,
	}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	runner := &MockRunner{}
	processor := NewBatchProcessor(runner, 2, false)

	paths := []string{"a/answers.json", "b/answers.json", "c/answers.json"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil {
				t.Error("expected run result for successful grading")
			} else if res.Result.Mode != pipeline.ModeGoldOnly {
				t.Errorf("expected gold-only mode, got %q", res.Result.Mode)
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.AnswersPath, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_IncludeHidden(t *testing.T) {
	runner := &MockRunner{}
	processor := NewBatchProcessor(runner, 1, true)

	results := processor.ProcessPaths(context.Background(), []string{"answers.json"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Result.Mode != pipeline.ModeGoldHidden {
		t.Errorf("expected hidden mode to propagate, got %q", results[0].Result.Mode)
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	runner := &MockRunner{ShouldError: true}
	processor := NewBatchProcessor(runner, 2, false)

	results := processor.ProcessPaths(context.Background(), []string{"a/answers.json"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil run result on error")
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2, false)

	results := processor.ProcessPaths(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func writeListFile(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "answers_list")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestReadPathsFromFile(t *testing.T) {
	path := writeListFile(t, `team_a/answers.json
# instructor note
team_b/answers.json

team_c/answers.json   `)

	paths, err := ReadPathsFromFile(path)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{"team_a/answers.json", "team_b/answers.json", "team_c/answers.json"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}

	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected path %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadPathsFromFile_Deduplication(t *testing.T) {
	path := writeListFile(t, "team_a/answers.json\nteam_a/answers.json")

	paths, err := ReadPathsFromFile(path)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	if len(paths) != 1 {
		t.Errorf("expected 1 path after deduplication, got %d", len(paths))
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestGradeResult_GetError(t *testing.T) {
	r1 := &GradeResult{AnswersPath: "answers.json"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("grading failed")
	r2 := &GradeResult{AnswersPath: "answers.json", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeListFile(t, "a/answers.json\nb/answers.json\n# comment\n\nc/answers.json\n")

	processor := NewBatchProcessor(&MockRunner{}, 2, false)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2, false)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeListFile(t, "")

	processor := NewBatchProcessor(&MockRunner{}, 2, false)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
