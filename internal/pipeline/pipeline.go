package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rubrica/rubrica/internal/bank"
	"github.com/rubrica/rubrica/internal/cache"
	"github.com/rubrica/rubrica/internal/llm"
	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/rubric"
)

// Grading modes, named by which question banks contributed IDs.
const (
	ModeGoldOnly   = "gold only"
	ModeGoldHidden = "gold + hidden"
)

// Pipeline orchestrates a complete grading run: load banks and submissions,
// grade against the rubric, then optionally generate LLM feedback.
type Pipeline struct {
	loader   *bank.Loader
	store    *rubric.Store
	grader   *Grader
	renderer *Renderer
	feedback *llm.Generator // nil when feedback is disabled
	config   *model.Config
}

// NewPipeline creates a pipeline from configuration. The rubric comes from
// cfg.Rubric.Path, or the embedded default when the path is empty.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	var store *rubric.Store
	var err error
	if cfg.Rubric.Path != "" {
		store, err = rubric.Load(cfg.Rubric.Path)
	} else {
		store, err = rubric.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load rubric: %w", err)
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		c = cache.NewLayeredCache(ttl, cfg.Cache.Dir, ttl)
	}

	var feedback *llm.Generator
	if cfg.LLM.Provider != "" {
		gen, err := llm.NewGenerator(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			feedback = gen
			if c != nil {
				feedback.WithCache(c)
			}
		}
	}

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	return &Pipeline{
		loader:   bank.NewLoader(c, ttl),
		store:    store,
		grader:   NewGrader(),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		feedback: feedback,
		config:   cfg,
	}, nil
}

// WithFeedbackLimiter throttles LLM feedback calls; batch runs share one limiter
func (p *Pipeline) WithFeedbackLimiter(l llm.Limiter) *Pipeline {
	if p.feedback != nil {
		p.feedback.WithLimiter(l)
	}
	return p
}

// Store exposes the loaded rubric
func (p *Pipeline) Store() *rubric.Store {
	return p.store
}

// RunResult is the outcome of one grading run
type RunResult struct {
	Report   model.GradingReport
	Mode     string
	Feedback *model.Feedback
}

// Run grades one answers file. The gold bank must load; the hidden bank is
// attempted only with includeHidden and its absence downgrades the run to gold
// only with a warning. Feedback failures warn and never affect the report.
func (p *Pipeline) Run(ctx context.Context, answersPath string, includeHidden bool) (*RunResult, error) {
	goldPath := filepath.Join(p.config.Dataset.Dir, p.config.Dataset.GoldFile)
	gold, err := p.loader.LoadQuestions(goldPath)
	if err != nil {
		return nil, fmt.Errorf("load gold questions: %w", err)
	}

	mode := ModeGoldOnly
	var hidden []model.Question
	if includeHidden {
		hiddenPath := filepath.Join(p.config.Dataset.Dir, p.config.Dataset.HiddenFile)
		if _, statErr := os.Stat(hiddenPath); statErr != nil {
			fmt.Fprintln(os.Stderr, "Hidden questions file not found. Continuing with gold only.")
		} else {
			hidden, err = p.loader.LoadQuestions(hiddenPath)
			if err != nil {
				return nil, fmt.Errorf("load hidden questions: %w", err)
			}
			mode = ModeGoldHidden
		}
	}

	subs, err := p.loader.LoadSubmissions(answersPath)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	report := p.grader.Grade(bank.IDs(gold, hidden), p.store, subs)

	result := &RunResult{Report: report, Mode: mode}

	// Feedback runs strictly after scoring and never modifies the report.
	if p.feedback != nil && p.feedback.IsEnabled() {
		fb, err := p.feedback.Generate(ctx, report, mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM feedback generation failed: %v\n", err)
		} else {
			result.Feedback = fb
		}
	}

	return result, nil
}

// RenderResult writes the requested artifacts and prints the summary to stdout.
// Feedback, when present, goes to its own .llm.md file beside the Markdown (or
// JSON) report so the report files stay byte-identical across identical runs.
func (p *Pipeline) RenderResult(res *RunResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(res.Report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(res.Report, res.Mode, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	if res.Feedback != nil && res.Feedback.Enabled {
		fbPath := feedbackPath(jsonPath, mdPath)
		if fbPath != "" {
			if err := p.renderer.RenderFeedbackMarkdown(llm.RenderSeparateMarkdown(res.Feedback), fbPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM feedback: %v\n", err)
			} else if verbose {
				fmt.Fprintf(os.Stderr, "Wrote LLM Feedback: %s\n", fbPath)
			}
		}
	}

	p.renderer.RenderSummary(res.Report, res.Mode)
	return nil
}

// feedbackPath derives the feedback file name from the report paths
func feedbackPath(jsonPath, mdPath string) string {
	switch {
	case mdPath != "":
		return strings.TrimSuffix(mdPath, ".md") + ".llm.md"
	case jsonPath != "":
		return strings.TrimSuffix(jsonPath, ".json") + ".llm.md"
	default:
		return ""
	}
}
