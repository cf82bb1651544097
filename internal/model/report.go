package model

// CourseReportRow aggregates completion and scoring statistics for one
// course. Consumed read-only by the admin dashboard.
type CourseReportRow struct {
	CourseID        string  `json:"course_id"`
	CourseName      string  `json:"course_name"`
	EnrolledCount   int     `json:"enrolled_count"`
	CompletedCount  int     `json:"completed_count"`
	AverageScore    float64 `json:"average_score"`
	AverageProgress float64 `json:"average_progress"`
}

// DepartmentReportRow aggregates training statistics per department.
type DepartmentReportRow struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	LearnerCount   int     `json:"learner_count"`
	EnrolledCount  int     `json:"enrolled_count"`
	CompletionRate float64 `json:"completion_rate"`
}

// FeedbackReportRow aggregates learner feedback ratings per course.
type FeedbackReportRow struct {
	CourseID      string  `json:"course_id"`
	CourseName    string  `json:"course_name"`
	FeedbackCount int     `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
}
