package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubrica/rubrica/internal/model"
)

// Renderer writes grading reports in their output formats. JSON output is the
// canonical artifact: struct field order plus sorted results make identical
// runs byte-identical.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report model.GradingReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints the totals header and per-question breakdown to stdout
func (r *Renderer) RenderSummary(report model.GradingReport, mode string) {
	r.renderSummaryTo(os.Stdout, report, mode)
}

func (r *Renderer) renderSummaryTo(w io.Writer, report model.GradingReport, mode string) {
	fmt.Fprintln(w, "=== RAG Grading Report ===")
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintf(w, "Total: %.1f / %.1f (%.1f%%)\n\n", report.Total, report.MaxTotal, report.Percentage())
	for _, res := range report.Results {
		fmt.Fprintf(w, "%s: %.1f/2.0  | %s | citations_ok=%t\n", res.ID, res.Score, res.ContentMsg, res.CitationsOK)
	}
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report model.GradingReport, mode string, path string) error {
	var b strings.Builder

	b.WriteString("# RAG Grading Report\n\n")
	fmt.Fprintf(&b, "**Mode:** %s\n\n", mode)
	fmt.Fprintf(&b, "**Total:** %.1f / %.1f (%.1f%%)\n\n", report.Total, report.MaxTotal, report.Percentage())

	b.WriteString("| Question | Score | Content | Citations |\n")
	b.WriteString("|----------|-------|---------|-----------|\n")
	for _, res := range report.Results {
		citations := "missed"
		if res.CitationsOK {
			citations = "ok"
		}
		fmt.Fprintf(&b, "| %s | %.1f/2.0 | %s | %s |\n", res.ID, res.Score, res.ContentMsg, citations)
	}

	if r.includeFooter {
		b.WriteString("\n---\n\nGenerated by rubrica. Scores are deterministic; identical inputs produce identical reports.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderFeedbackMarkdown writes the pre-rendered LLM feedback document.
// Feedback lives in its own file so the report artifacts stay deterministic.
func (r *Renderer) RenderFeedbackMarkdown(markdown string, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
