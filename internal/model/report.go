package model

// GradeResult is the per-question grading outcome. Content and citation axes
// are scored independently; Score is always their sum.
type GradeResult struct {
	ID            string  `json:"id"`
	Score         float64 `json:"score"`
	ContentScore  float64 `json:"content_score"`
	CitationScore float64 `json:"citation_score"`
	ContentMsg    string  `json:"content_msg"`
	CitationsOK   bool    `json:"citations_ok"`
}

// GradingReport is the machine-readable output of a grading run.
// MaxTotal is always 2.0 x the number of scored questions (1 point content,
// 1 point citations per question), including when zero questions are scored.
type GradingReport struct {
	Total    float64       `json:"total"`
	MaxTotal float64       `json:"max_total"`
	Results  []GradeResult `json:"results"`
}

// Percentage returns Total as a percentage of MaxTotal, 0 when nothing was scored
func (r *GradingReport) Percentage() float64 {
	if r.MaxTotal == 0 {
		return 0
	}
	return 100 * r.Total / r.MaxTotal
}

// Feedback contains the optional LLM-generated narrative for a grading report.
// It is produced after scoring and never affects any score; it is written to a
// separate file so report JSON stays byte-identical across identical runs.
type Feedback struct {
	Enabled          bool     `json:"enabled"`
	Provider         string   `json:"provider,omitempty"`
	Model            string   `json:"model,omitempty"`
	StrictReferences bool     `json:"strict_references"`
	NarrativeMD      string   `json:"narrative_md,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}
