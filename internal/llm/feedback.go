package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rubrica/rubrica/internal/cache"
	"github.com/rubrica/rubrica/internal/model"
)

// Limiter gates feedback calls. Satisfied by worker.Limiter, so batch runs can
// throttle provider traffic.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Generator produces the optional feedback narrative for a grading report.
// A Generator whose provider is nil is valid and inert. Feedback runs strictly
// after scoring and never modifies the report.
type Generator struct {
	provider Provider
	config   Config
	cache    cache.Cache
	limiter  Limiter
}

// NewGenerator creates a generator from configuration; an empty provider name
// yields a disabled generator
func NewGenerator(config Config) (*Generator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Generator{provider: provider, config: config}, nil
}

// WithCache attaches a response cache keyed by report content
func (g *Generator) WithCache(c cache.Cache) *Generator {
	g.cache = c
	return g
}

// WithLimiter attaches a rate limiter for provider calls
func (g *Generator) WithLimiter(l Limiter) *Generator {
	g.limiter = l
	return g
}

// IsEnabled reports whether a provider is configured
func (g *Generator) IsEnabled() bool {
	return g.provider != nil
}

// ProviderName returns the active provider name, empty when disabled
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Generate builds feedback for a report. Under strict references, a narrative
// mentioning a question ID outside the report aborts the feedback (never the
// grading). Identical reports hit the cache instead of the provider.
func (g *Generator) Generate(ctx context.Context, report model.GradingReport, mode string) (*model.Feedback, error) {
	if g.provider == nil {
		return nil, nil
	}

	allowed := allowedIDs(report)
	key := g.cacheKey(report, mode)

	if g.cache != nil {
		if data, found := g.cache.Get(key); found {
			var fb model.Feedback
			if err := json.Unmarshal(data, &fb); err == nil {
				return &fb, nil
			}
		}
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx, g.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := g.provider.Generate(ctx, GenerateRequest{
		Report:     report,
		Mode:       mode,
		AllowedIDs: allowed,
		Model:      g.config.Model,
		MaxTokens:  g.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var warnings []string
	if resp.Narrative == "" {
		warnings = append(warnings, "provider returned an empty narrative")
	}

	if g.config.StrictReferences {
		for _, id := range extractQuestionIDs(resp.Narrative) {
			if !contains(allowed, id) {
				return nil, fmt.Errorf("REFERENCE LEAK: narrative mentions unscored question %s", id)
			}
		}
	}

	fb := &model.Feedback{
		Enabled:          true,
		Provider:         g.provider.Name(),
		Model:            resp.Model,
		StrictReferences: g.config.StrictReferences,
		NarrativeMD:      resp.Narrative,
		Warnings:         warnings,
	}

	if g.cache != nil {
		if data, err := json.Marshal(fb); err == nil {
			_ = g.cache.Set(key, data, 0)
		}
	}

	return fb, nil
}

// cacheKey hashes the report content plus provider identity, so a changed
// score or model invalidates the cached narrative
func (g *Generator) cacheKey(report model.GradingReport, mode string) string {
	payload, _ := json.Marshal(struct {
		Report   model.GradingReport `json:"report"`
		Mode     string              `json:"mode"`
		Provider string              `json:"provider"`
		Model    string              `json:"model"`
	}{report, mode, g.provider.Name(), g.config.Model})
	return cache.Key("feedback:" + string(payload))
}

// questionIDPattern matches question-ID-shaped tokens (letters then digits)
var questionIDPattern = regexp.MustCompile(`\b[A-Z]{1,4}[0-9]{1,4}\b`)

// extractQuestionIDs finds all question IDs mentioned in text, deduplicated in
// first-seen order
func extractQuestionIDs(text string) []string {
	matches := questionIDPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, id := range matches {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}

func allowedIDs(report model.GradingReport) []string {
	ids := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// RenderSeparateMarkdown renders feedback as a standalone document, clearly
// separated from the deterministic report
func RenderSeparateMarkdown(fb *model.Feedback) string {
	var b strings.Builder

	b.WriteString("# Grading Feedback (LLM)\n\n")
	fmt.Fprintf(&b, "> Generated by %s/%s after scoring. This narrative never affects any score.\n\n",
		fb.Provider, fb.Model)

	b.WriteString(fb.NarrativeMD)
	b.WriteString("\n")

	if len(fb.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range fb.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
