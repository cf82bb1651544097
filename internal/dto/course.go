package dto

// Course is the wire shape of a course as returned by the backend.
// Status and Department are dynamic-shape fields (see union.go).
type Course struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	CourseCode    string      `json:"courseCode"`
	Description   string      `json:"description"`
	Status        NameRef     `json:"status"`
	Department    NameRefList `json:"department"`
	Image         string      `json:"image"`
	EnrolledCount *int        `json:"enrolledCount"`
	LessonCount   *int        `json:"lessonCount"`
	TestCount     *int        `json:"testCount"`
	IsEnrolled    *bool       `json:"isEnrolled"`
	CreatedBy     NameRef     `json:"createdBy"`
	CreatedAt     string      `json:"createdAt"`
	ModifiedAt    string      `json:"modifiedAt"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name          string   `json:"name" binding:"required,min=3,max=255"`
	CourseCode    string   `json:"courseCode" binding:"omitempty,max=50"`
	Description   string   `json:"description" binding:"omitempty,max=4000"`
	DepartmentIDs []string `json:"departmentIds" binding:"omitempty,dive,required"`
	Image         string   `json:"image" binding:"omitempty,url"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Name          string   `json:"name" binding:"omitempty,min=3,max=255"`
	CourseCode    string   `json:"courseCode" binding:"omitempty,max=50"`
	Description   string   `json:"description" binding:"omitempty,max=4000"`
	DepartmentIDs []string `json:"departmentIds" binding:"omitempty,dive,required"`
	Image         string   `json:"image" binding:"omitempty,url"`
	Status        string   `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// DepartmentDTO is the wire shape of a department.
type DepartmentDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// CreateDepartmentRequest is the payload for creating a department.
type CreateDepartmentRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	ParentID string `json:"parentId" binding:"omitempty"`
}
