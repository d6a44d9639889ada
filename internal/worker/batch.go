package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rubrica/rubrica/internal/pipeline"
)

// Runner grades one answers file. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, answersPath string, includeHidden bool) (*pipeline.RunResult, error)
}

// GradeJob grades a single answers file
type GradeJob struct {
	AnswersPath   string
	IncludeHidden bool
	Runner        Runner
}

// Execute runs the grading job
func (j *GradeJob) Execute(ctx context.Context) Result {
	res, err := j.Runner.Run(ctx, j.AnswersPath, j.IncludeHidden)
	if err != nil {
		return &GradeResult{
			AnswersPath: j.AnswersPath,
			Error:       err,
		}
	}
	return &GradeResult{
		AnswersPath: j.AnswersPath,
		Result:      res,
	}
}

// GradeResult is the outcome of one batch grading job
type GradeResult struct {
	AnswersPath string
	Result      *pipeline.RunResult
	Error       error
}

// GetError returns the error from the grading job
func (r *GradeResult) GetError() error {
	return r.Error
}

// BatchProcessor grades multiple answers files concurrently against one
// dataset and rubric
type BatchProcessor struct {
	runner        Runner
	concurrency   int
	includeHidden bool
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int, includeHidden bool) *BatchProcessor {
	return &BatchProcessor{
		runner:        runner,
		concurrency:   concurrency,
		includeHidden: includeHidden,
	}
}

// ProcessPaths grades the given answers files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*GradeResult {
	if len(paths) == 0 {
		return []*GradeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&GradeJob{
			AnswersPath:   path,
			IncludeHidden: b.includeHidden,
			Runner:        b.runner,
		})
	}

	results := pool.Wait()

	gradeResults := make([]*GradeResult, len(results))
	for i, result := range results {
		gradeResults[i] = result.(*GradeResult)
	}

	return gradeResults
}

// ProcessFile reads answers-file paths from a list file and grades them
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*GradeResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read answers list: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads one path per line, skipping blanks and # comments
// and deduplicating repeats
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
