package model

// Question is one entry of a question bank. Banks may carry additional fields
// (prompt text, difficulty, expected sources); grading only uses the ID.
type Question struct {
	ID       string `json:"id"`
	Question string `json:"question,omitempty"`
}

// SubmittedAnswer is one record produced by the answer-generation pipeline
// (or a test fixture) for a single question
type SubmittedAnswer struct {
	ID        string   `json:"id"`
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
}
