package model

import "time"

// CourseStatus is the canonical course lifecycle state. The backend returns
// this field in several shapes; the mapper resolves all of them to this enum.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Course is the canonical course view model.
type Course struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	Status        CourseStatus `json:"status"`
	Departments   []Department `json:"departments"`
	ImageURL      string       `json:"image_url"`
	EnrolledCount int          `json:"enrolled_count"`
	LessonCount   int          `json:"lesson_count"`
	TestCount     int          `json:"test_count"`
	IsEnrolled    bool         `json:"is_enrolled"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Department is the canonical department view model.
type Department struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}
