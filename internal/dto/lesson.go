package dto

// Lesson is the wire shape of a lesson.
type Lesson struct {
	ID         string `json:"id"`
	CourseID   string `json:"courseId"`
	Title      string `json:"title"`
	FileType   string `json:"fileType"`
	FileURL    string `json:"fileUrl"`
	Duration   *int   `json:"totalDurationSeconds"`
	TotalPages *int   `json:"totalPages"`
	Order      *int   `json:"order"`
}

// CreateLessonRequest is the payload for creating a lesson under a course.
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255"`
	FileType string `json:"fileType" binding:"required,oneof=video pdf link text"`
	FileURL  string `json:"fileUrl" binding:"omitempty,url"`
	Duration *int   `json:"totalDurationSeconds" binding:"omitempty,min=0"`
	Pages    *int   `json:"totalPages" binding:"omitempty,min=0"`
	Order    *int   `json:"order" binding:"omitempty,min=0"`
}

// LessonProgressDTO is the wire shape of a learner's lesson progress.
type LessonProgressDTO struct {
	LessonID          string   `json:"lessonId"`
	CurrentPage       *int     `json:"currentPage"`
	CurrentTimeSecond *int     `json:"currentTimeSecond"`
	Completion        *float64 `json:"completionPercentage"`
}

// UpdateLessonProgressRequest upserts a consumption position. The two
// position fields are independently optional.
type UpdateLessonProgressRequest struct {
	LessonID          string `json:"lessonId" binding:"required"`
	CurrentPage       *int   `json:"currentPage" binding:"omitempty,min=0"`
	CurrentTimeSecond *int   `json:"currentTimeSecond" binding:"omitempty,min=0"`
}
