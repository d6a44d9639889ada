package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rubrica/rubrica/internal/pipeline"
	"github.com/rubrica/rubrica/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Grade multiple answers files from a list in parallel",
	Long: `Batch grades many submissions concurrently:
- Read answers-file paths from the input file (one per line, # comments)
- Grade each submission against the same dataset and rubric
- Write an individual report per submission into the output directory

Example:
  rubrica batch submissions.txt
  rubrica batch submissions.txt --concurrency 10 --output-dir ./reports
  rubrica batch submissions.txt --include-hidden --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./rubrica-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch grading")

	// Shared grading flags
	batchCmd.Flags().StringVar(&datasetDir, "dataset", "rag_support_dataset", "dataset directory with the question banks")
	batchCmd.Flags().StringVar(&goldFile, "gold", "gold_questions_public.json", "gold question bank file name")
	batchCmd.Flags().StringVar(&hiddenFile, "hidden", "hidden_questions_instructor.json", "hidden question bank file name")
	batchCmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "also grade hidden instructor questions")
	batchCmd.Flags().StringVar(&rubricPath, "rubric", "", "rubric YAML path (default: embedded rubric)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable bank and feedback caching")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM feedback narrative (never affects scores)")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Rubrica Batch Grading\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	// One limiter across all workers keeps provider traffic within budget.
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	p.WithFeedbackLimiter(limiter)

	processor := worker.NewBatchProcessor(p, concurrency, includeHidden)

	fmt.Fprintf(os.Stderr, "Reading answers files from list...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d answers files\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Grading with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	// Pool results arrive in completion order; sort for stable output.
	sort.Slice(results, func(i, j int) bool {
		return results[i].AnswersPath < results[j].AnswersPath
	})

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", result.AnswersPath, result.Error)
			continue
		}

		successCount++

		slug := reportSlug(result.AnswersPath)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", result.AnswersPath, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result.Report, result.Result.Mode, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", result.AnswersPath, err)
			continue
		}

		report := result.Result.Report
		fmt.Fprintf(os.Stderr, "OK   %s: %.1f / %.1f (%.1f%%)\n",
			result.AnswersPath, report.Total, report.MaxTotal, report.Percentage())
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d submissions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportSlug derives a report file name from an answers-file path. Submissions
// commonly arrive as <team>/answers.json, so the parent directory is folded in
// to keep slugs distinct.
func reportSlug(answersPath string) string {
	base := filepath.Base(answersPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if dir := filepath.Base(filepath.Dir(answersPath)); dir != "." && dir != string(filepath.Separator) {
		base = dir + "_" + base
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	base = replacer.Replace(base)

	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" {
		base = "report"
	}
	return base
}
