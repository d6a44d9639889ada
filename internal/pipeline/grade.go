package pipeline

import (
	"sort"

	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/rubric"
	"github.com/rubrica/rubrica/internal/score"
	"github.com/rubrica/rubrica/internal/validate"
)

// Grader folds per-question scoring and citation validation into a report.
// It holds no run state, so one Grader can serve concurrent batch jobs.
type Grader struct {
	scorer    *score.Scorer
	validator *validate.Validator
}

// NewGrader creates a grader
func NewGrader() *Grader {
	return &Grader{
		scorer:    score.NewScorer(),
		validator: validate.NewValidator(),
	}
}

// Grade scores the submitted answers for the given question IDs against the
// rubric. IDs are deduplicated and visited in lexicographic order; an ID with
// no rubric entry is skipped entirely. A question without a submission grades
// as an empty answer with no citations. Each scored question adds exactly 2.0
// to MaxTotal (1 point content, 1 point citations).
func (g *Grader) Grade(ids []string, store *rubric.Store, subs map[string]model.SubmittedAnswer) model.GradingReport {
	report := model.GradingReport{Results: []model.GradeResult{}}

	for _, id := range sortedUnique(ids) {
		entry, ok := store.Get(id)
		if !ok {
			continue
		}

		sub := subs[id] // zero value when no submission exists

		contentScore, contentMsg := g.scorer.Score(entry, sub.Answer)

		citationsOK := g.validator.CitationsOK(entry, sub.Citations)
		citationScore := 0.0
		if citationsOK {
			citationScore = 1.0
		}

		result := model.GradeResult{
			ID:            id,
			Score:         contentScore + citationScore,
			ContentScore:  contentScore,
			CitationScore: citationScore,
			ContentMsg:    contentMsg,
			CitationsOK:   citationsOK,
		}

		report.Results = append(report.Results, result)
		report.Total += result.Score
		report.MaxTotal += 2.0
	}

	return report
}

// sortedUnique returns the distinct IDs in lexicographic order, dropping empties
func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
