package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubrica/rubrica/internal/model"
)

func sampleReport() model.GradingReport {
	return model.GradingReport{
		Total:    3.7,
		MaxTotal: 4.0,
		Results: []model.GradeResult{
			{ID: "G1", Score: 2.0, ContentScore: 1.0, CitationScore: 1.0, ContentMsg: "content: full", CitationsOK: true},
			{ID: "G4", Score: 1.7, ContentScore: 0.7, CitationScore: 1.0, ContentMsg: "content: partial (2/3 checks)", CitationsOK: true},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var got model.GradingReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse rendered report: %v", err)
	}
	if got.Total != 3.7 || got.MaxTotal != 4.0 || len(got.Results) != 2 {
		t.Errorf("Round trip mismatch: %+v", got)
	}
}

func TestRenderJSON_EmptyReportRendersEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := model.GradingReport{Results: []model.GradeResult{}}

	if err := NewRenderer(true).RenderJSON(report, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), `"results": []`) {
		t.Errorf("Expected empty results array in JSON, got:\n%s", data)
	}
}

func TestRenderJSON_ByteIdentical(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	renderer := NewRenderer(true)

	if err := renderer.RenderJSON(sampleReport(), first); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	if err := renderer.RenderJSON(sampleReport(), second); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if !bytes.Equal(a, b) {
		t.Error("Identical reports must render byte-identical JSON")
	}
}

func TestRenderSummary_TotalsBeforeQuestions(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(true).renderSummaryTo(&buf, sampleReport(), ModeGoldOnly)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 5 {
		t.Fatalf("Unexpected summary shape:\n%s", out)
	}

	if lines[0] != "=== RAG Grading Report ===" {
		t.Errorf("Expected report header first, got %q", lines[0])
	}
	if lines[1] != "Mode: gold only" {
		t.Errorf("Expected mode line, got %q", lines[1])
	}
	// The totals header comes before any per-question line.
	if lines[2] != "Total: 3.7 / 4.0 (92.5%)" {
		t.Errorf("Expected totals header before the breakdown, got %q", lines[2])
	}
	if lines[3] != "" {
		t.Errorf("Expected blank line after totals, got %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "G1: 2.0/2.0  | content: full | citations_ok=true") {
		t.Errorf("Expected per-question lines after totals, got %q", lines[4])
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderMarkdown(sampleReport(), ModeGoldOnly, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# RAG Grading Report",
		"**Mode:** gold only",
		"**Total:** 3.7 / 4.0 (92.5%)",
		"| G4 | 1.7/2.0 | content: partial (2/3 checks) | ok |",
		"Generated by rubrica",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(false).RenderMarkdown(sampleReport(), ModeGoldOnly, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Generated by rubrica") {
		t.Error("Expected footer to be omitted")
	}
}

func TestFeedbackPath(t *testing.T) {
	tests := []struct {
		name     string
		jsonPath string
		mdPath   string
		want     string
	}{
		{"markdown preferred", "report.json", "report.md", "report.llm.md"},
		{"json fallback", "out/report.json", "", "out/report.llm.md"},
		{"no outputs", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feedbackPath(tt.jsonPath, tt.mdPath); got != tt.want {
				t.Errorf("feedbackPath(%q, %q) = %q, want %q", tt.jsonPath, tt.mdPath, got, tt.want)
			}
		})
	}
}
