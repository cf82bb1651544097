package dto

// CourseReport is the wire shape of one course statistics row.
type CourseReport struct {
	CourseID        string   `json:"courseId"`
	CourseName      string   `json:"courseName"`
	EnrolledCount   *int     `json:"enrolledCount"`
	CompletedCount  *int     `json:"completedCount"`
	AverageScore    *float64 `json:"averageScore"`
	AverageProgress *float64 `json:"averageProgress"`
}

// DepartmentReport is the wire shape of one department statistics row.
type DepartmentReport struct {
	DepartmentID   string   `json:"departmentId"`
	DepartmentName string   `json:"departmentName"`
	LearnerCount   *int     `json:"learnerCount"`
	EnrolledCount  *int     `json:"enrolledCount"`
	CompletionRate *float64 `json:"completionRate"`
}

// FeedbackReport is the wire shape of one feedback statistics row.
type FeedbackReport struct {
	CourseID      string   `json:"courseId"`
	CourseName    string   `json:"courseName"`
	FeedbackCount *int     `json:"feedbackCount"`
	AverageRating *float64 `json:"averageRating"`
}
