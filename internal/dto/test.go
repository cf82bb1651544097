package dto

// Question is the wire shape of a test question. Options arrive as separate
// lettered fields; CorrectOption is a comma-joined letter list ("a,c").
type Question struct {
	ID            string  `json:"id"`
	QuestionText  string  `json:"questionText"`
	QuestionType  string  `json:"questionType"`
	OptionA       string  `json:"a"`
	OptionB       string  `json:"b"`
	OptionC       *string `json:"c"`
	OptionD       *string `json:"d"`
	CorrectOption string  `json:"correctOption"`
	Explanation   string  `json:"explanation,omitempty"`
	Position      *int    `json:"position"`
}

// Test is the wire shape of a test. TimeTest is the limit in minutes
// (0 = untimed).
type Test struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"courseId"`
	Title         string     `json:"title"`
	PassThreshold *float64   `json:"passThreshold"`
	TimeTest      *int       `json:"timeTest"`
	Questions     []Question `json:"questions"`
	CreatedBy     NameRef    `json:"createdBy"`
	CreatedAt     string     `json:"createdAt"`
}

// QuestionPayload is the authoring payload for one question.
type QuestionPayload struct {
	QuestionText  string  `json:"questionText" binding:"required,min=1,max=2000"`
	QuestionType  string  `json:"questionType" binding:"required,oneof=single_choice multiple_choice select_all"`
	OptionA       string  `json:"a" binding:"required,min=1"`
	OptionB       string  `json:"b" binding:"required,min=1"`
	OptionC       *string `json:"c" binding:"omitempty"`
	OptionD       *string `json:"d" binding:"omitempty"`
	CorrectOption string  `json:"correctOption" binding:"required,max=10"`
	Explanation   string  `json:"explanation" binding:"omitempty,max=2000"`
	Position      int     `json:"position" binding:"min=0"`
}

// CreateTestRequest is the authoring payload for a test under a course.
type CreateTestRequest struct {
	Title         string            `json:"title" binding:"required,min=3,max=255"`
	PassThreshold float64           `json:"passThreshold" binding:"min=0,max=100"`
	TimeTest      int               `json:"timeTest" binding:"min=0,max=480"`
	Questions     []QuestionPayload `json:"questions" binding:"omitempty,dive"`
}

// SubmitTestRequest is the attempt submission payload. Only questions with
// at least one selection are included.
type SubmitTestRequest struct {
	TestID    string             `json:"testId" binding:"required"`
	Answers   []AnswerSubmission `json:"answers" binding:"dive"`
	StartedAt string             `json:"startedAt" binding:"required"`
}

// AnswerSubmission carries one question's selected option letters.
type AnswerSubmission struct {
	QuestionID      string   `json:"questionId" binding:"required"`
	SelectedOptions []string `json:"selectedOptions" binding:"required,min=1"`
}

// SubmitTestResponse is the server-authoritative scoring result.
type SubmitTestResponse struct {
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	IsPassed       bool    `json:"isPassed"`
}
