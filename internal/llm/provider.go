package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rubrica/rubrica/internal/model"
)

// Provider defines the interface for LLM feedback backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a feedback narrative for a grading report
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for feedback generation
type GenerateRequest struct {
	// Report is the grading report to narrate
	Report model.GradingReport

	// Mode describes the scored ID universe ("gold only", "gold + hidden")
	Mode string

	// AllowedIDs is the STRICT allowlist of question IDs the narrative may
	// reference; anything outside it is treated as a hallucination
	AllowedIDs []string

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the provider's output
type GenerateResponse struct {
	// Narrative is the generated feedback text (Markdown)
	Narrative string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// StrictReferences enforces the question-ID allowlist (should stay true)
	StrictReferences bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:         "", // disabled by default
		Model:            "",
		Timeout:          30,
		StrictReferences: true,
		MaxTokens:        1000,
	}
}

// BuildPrompt constructs the default feedback prompt. The narrative must stay
// inside the report: only the listed question IDs may be referenced, and the
// text describes rubric outcomes, never re-judges answers.
func BuildPrompt(report model.GradingReport, mode string, allowedIDs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are writing instructor-facing feedback for an automated rubric grading run. The scores are final and rule-based - you never re-grade, agree, or disagree with them.

CRITICAL RULES:
1. You may ONLY reference these question IDs:
%s

2. Do not invent question IDs, answers, or sources not shown below.
3. Describe what the rubric found (content hit/miss, citations present or not), not whether the underlying answer is "really" correct.
4. If a score is below full credit, point at the rationale tag, nothing more.

Grading run (%s):
- Total: %.1f / %.1f (%.1f%%)
- Questions scored: %d
- Full credit: %d, zero: %d

Per-question results:
`, joinIDs(allowedIDs), mode, report.Total, report.MaxTotal, report.Percentage(),
		len(report.Results), countFullCredit(report.Results), countZero(report.Results))

	for _, r := range report.Results {
		fmt.Fprintf(&b, "- %s: %.1f/2.0 | %s | citations_ok=%t\n",
			r.ID, r.Score, r.ContentMsg, r.CitationsOK)
	}

	b.WriteString("\nWrite a short Markdown note: 3-4 sentences on the overall run, then one bullet per question that lost points, naming what was missed.")

	return b.String()
}

// Helper functions

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "(no questions were scored)"
	}
	return strings.Join(ids, ", ")
}

func countFullCredit(results []model.GradeResult) int {
	count := 0
	for _, r := range results {
		if r.Score == 2.0 {
			count++
		}
	}
	return count
}

func countZero(results []model.GradeResult) int {
	count := 0
	for _, r := range results {
		if r.Score == 0.0 {
			count++
		}
	}
	return count
}
