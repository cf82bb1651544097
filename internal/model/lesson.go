package model

// LessonType enumerates supported lesson content types.
type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypePDF   LessonType = "pdf"
	LessonTypeLink  LessonType = "link"
	LessonTypeText  LessonType = "text"
)

// Lesson is the canonical lesson view model. Lessons are owned by a course
// and read-only to the learner.
type Lesson struct {
	ID              string     `json:"id"`
	CourseID        string     `json:"course_id"`
	Title           string     `json:"title"`
	Type            LessonType `json:"type"`
	URL             string     `json:"url"`
	DurationSeconds int        `json:"duration_seconds"`
	TotalPages      int        `json:"total_pages"`
	Position        int        `json:"position"`
}

// LessonProgress is the per-lesson, per-learner consumption position.
// CompletionPercent is derived by the backend; the client never computes it
// beyond the optimistic merge.
type LessonProgress struct {
	LessonID          string  `json:"lesson_id"`
	CurrentPage       int     `json:"current_page"`
	CurrentTimeSecond int     `json:"current_time_second"`
	CompletionPercent float64 `json:"completion_percent"`
}
