package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// CourseHandler handles course and enrollment endpoints.
type CourseHandler struct {
	store *Store
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(store *Store) *CourseHandler {
	return &CourseHandler{store: store}
}

// List godoc
// GET /api/Courses
// Admins see every course; learners only see published ones.
func (h *CourseHandler) List(c *gin.Context) {
	claims := GetClaims(c)

	var visible []*courseRecord
	for _, course := range h.store.Courses() {
		if claims.Role == "LEARNER" && course.Status != "PUBLISHED" {
			continue
		}
		visible = append(visible, course)
	}

	response.Success(c, http.StatusOK, h.store.renderCourses(visible, claims.UserID))
}

// Get godoc
// GET /api/Courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	claims := GetClaims(c)
	course, ok := h.store.CourseByID(c.Param("id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if claims.Role == "LEARNER" && course.Status != "PUBLISHED" {
		response.Fail(c, http.StatusConflict, response.ErrCourseUnavailable)
		return
	}
	response.Success(c, http.StatusOK, h.store.renderCourse(course, claims.UserID))
}

// Create godoc
// POST /api/Courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := h.checkDepartments(req.DepartmentIDs); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := GetClaims(c)
	creatorName := ""
	if u, ok := h.store.UserByID(claims.UserID); ok {
		creatorName = u.FullName
	}

	course := h.store.AddCourse(&courseRecord{
		Name:          req.Name,
		Code:          req.CourseCode,
		Description:   req.Description,
		Image:         req.Image,
		DepartmentIDs: req.DepartmentIDs,
		CreatedByID:   claims.UserID,
		CreatedByName: creatorName,
	})
	response.Success(c, http.StatusCreated, h.store.renderCourse(course, claims.UserID))
}

// Update godoc
// PUT /api/Courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := h.checkDepartments(req.DepartmentIDs); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, ok := h.store.UpdateCourse(c.Param("id"), func(rec *courseRecord) {
		if req.Name != "" {
			rec.Name = req.Name
		}
		if req.CourseCode != "" {
			rec.Code = req.CourseCode
		}
		if req.Description != "" {
			rec.Description = req.Description
		}
		if req.Image != "" {
			rec.Image = req.Image
		}
		if len(req.DepartmentIDs) > 0 {
			rec.DepartmentIDs = req.DepartmentIDs
		}
		if req.Status != "" {
			rec.Status = req.Status
		}
	})
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, h.store.renderCourse(course, GetClaims(c).UserID))
}

// Delete godoc
// DELETE /api/Courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if !h.store.DeleteCourse(c.Param("id")) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Enroll godoc
// POST /api/Courses/:id/enroll
// Learners may only enroll in published courses, once.
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims := GetClaims(c)
	course, ok := h.store.CourseByID(c.Param("id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if course.Status != "PUBLISHED" {
		response.Fail(c, http.StatusConflict, response.ErrCourseUnavailable)
		return
	}
	if already := h.store.Enroll(claims.UserID, course.ID); already {
		response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Enrolled godoc
// GET /api/Courses/enrolled
func (h *CourseHandler) Enrolled(c *gin.Context) {
	claims := GetClaims(c)
	courses := h.store.EnrolledCourses(claims.UserID)
	response.Success(c, http.StatusOK, h.store.renderCourses(courses, claims.UserID))
}

// checkDepartments verifies every referenced department exists.
func (h *CourseHandler) checkDepartments(ids []string) map[string]string {
	for _, id := range ids {
		if _, ok := h.store.DepartmentByID(id); !ok {
			return map[string]string{"departmentIds": "unknown department: " + id}
		}
	}
	return nil
}
