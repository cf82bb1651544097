package model

import "time"

// QuestionType enumerates supported question answer semantics.
type QuestionType string

const (
	// QuestionTypeSingleChoice allows exactly one selected option; selecting
	// a new option replaces the previous selection.
	QuestionTypeSingleChoice QuestionType = "single_choice"
	// QuestionTypeMultipleChoice toggles option membership.
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	// QuestionTypeSelectAll behaves like multiple choice; every correct
	// option must be selected and nothing else.
	QuestionTypeSelectAll QuestionType = "select_all"
)

// Question is a single test question. Options are keyed by letter ("a".."d")
// in Options order; CorrectOptions holds the correct letters.
type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"`
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options"`
	CorrectOptions []string     `json:"correct_options"`
	Explanation    string       `json:"explanation,omitempty"`
	Position       int          `json:"position"`
}

// Test is the canonical test view model. TimeMinutes of 0 means untimed.
// Questions are ordered by Position.
type Test struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"course_id"`
	Title         string     `json:"title"`
	PassThreshold float64    `json:"pass_threshold"`
	TimeMinutes   int        `json:"time_minutes"`
	Questions     []Question `json:"questions"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TestResult is the authoritative (or locally computed fallback) outcome of
// a submitted attempt.
type TestResult struct {
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	IsPassed       bool    `json:"is_passed"`
}

// AnswerSubmission carries one question's selected options to the server.
// Only questions with at least one selection are submitted.
type AnswerSubmission struct {
	QuestionID      string   `json:"question_id"`
	SelectedOptions []string `json:"selected_options"`
}

// TestSubmission is the full submit payload for an attempt.
type TestSubmission struct {
	TestID    string             `json:"test_id"`
	Answers   []AnswerSubmission `json:"answers"`
	StartedAt time.Time          `json:"started_at"`
}
