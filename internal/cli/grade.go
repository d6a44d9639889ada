package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/pipeline"
)

var (
	datasetDir    string
	goldFile      string
	hiddenFile    string
	includeHidden bool
	rubricPath    string
	outJSON       string
	outMD         string
	timeout       time.Duration
	noCache       bool
	noFooter      bool
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// gradeCmd represents the grade command
var gradeCmd = &cobra.Command{
	Use:   "grade <answers.json>",
	Short: "Grade one answers file against the rubric",
	Long: `Grade scores a submitted answers file:
- Load the gold question bank (and optionally the hidden bank)
- Score each question's answer content against its rubric rules
- Validate citations against accepted source patterns
- Write a deterministic JSON report and print a summary

Example:
  rubrica grade answers.json
  rubrica grade answers.json --include-hidden --json report.json --md report.md
  rubrica grade answers.json --rubric custom_rubric.yaml
  rubrica grade answers.json --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runGrade,
}

func init() {
	rootCmd.AddCommand(gradeCmd)

	// Dataset flags
	gradeCmd.Flags().StringVar(&datasetDir, "dataset", "rag_support_dataset", "dataset directory with the question banks")
	gradeCmd.Flags().StringVar(&goldFile, "gold", "gold_questions_public.json", "gold question bank file name")
	gradeCmd.Flags().StringVar(&hiddenFile, "hidden", "hidden_questions_instructor.json", "hidden question bank file name")
	gradeCmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "also grade hidden instructor questions")
	gradeCmd.Flags().StringVar(&rubricPath, "rubric", "", "rubric YAML path (default: embedded rubric)")

	// Output flags
	gradeCmd.Flags().StringVar(&outJSON, "json", "grading_report.json", "output JSON path")
	gradeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	gradeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall grading timeout (only LLM feedback takes long)")
	gradeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable bank and feedback caching")
	gradeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	gradeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM feedback narrative (never affects scores)")
	gradeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	gradeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runGrade(cmd *cobra.Command, args []string) error {
	answersPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Default report lands next to the answers file.
	if !cmd.Flags().Changed("json") {
		outJSON = filepath.Join(filepath.Dir(answersPath), outJSON)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Grading: %s\n", answersPath)
		fmt.Fprintf(os.Stderr, "Rubric entries: %d (version %d)\n", p.Store().Len(), p.Store().Version())
		fmt.Fprintf(os.Stderr, "Dataset: %s\n", cfg.Dataset.Dir)
		fmt.Fprintln(os.Stderr)
	}

	res, err := p.Run(ctx, answersPath, includeHidden)
	if err != nil {
		return fmt.Errorf("grading failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scored %d questions\n", len(res.Report.Results))
		if res.Feedback != nil && res.Feedback.Enabled {
			fmt.Fprintf(os.Stderr, "Generated LLM feedback using %s/%s\n", res.Feedback.Provider, res.Feedback.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderResult(res, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the run configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Dataset.Dir = datasetDir
	cfg.Dataset.GoldFile = goldFile
	cfg.Dataset.HiddenFile = hiddenFile
	cfg.Rubric.Path = rubricPath
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictReferences = true // Always enforce

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		default:
			return nil, fmt.Errorf("unknown LLM provider: %s", llmProvider)
		}
	}

	return cfg, nil
}
