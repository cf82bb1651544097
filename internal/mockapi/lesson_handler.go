package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// LessonHandler handles lesson endpoints.
type LessonHandler struct {
	store *Store
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(store *Store) *LessonHandler {
	return &LessonHandler{store: store}
}

// ListByCourse godoc
// GET /api/Courses/:id/lessons
func (h *LessonHandler) ListByCourse(c *gin.Context) {
	courseID := c.Param("id")
	if _, ok := h.store.CourseByID(courseID); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderLessons(h.store.LessonsByCourse(courseID)))
}

// Get godoc
// GET /api/Lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	lesson, ok := h.store.LessonByID(c.Param("id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrLessonNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderLesson(lesson))
}

// Create godoc
// POST /api/Courses/:id/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	courseID := c.Param("id")
	if _, ok := h.store.CourseByID(courseID); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req dto.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	order := len(h.store.LessonsByCourse(courseID))
	if req.Order != nil {
		order = *req.Order
	}
	lesson := h.store.AddLesson(&lessonRecord{
		CourseID:   courseID,
		Title:      req.Title,
		FileType:   req.FileType,
		FileURL:    req.FileURL,
		Duration:   intValue(req.Duration),
		TotalPages: intValue(req.Pages),
		Order:      order,
	})
	response.Success(c, http.StatusCreated, renderLesson(lesson))
}

// Update godoc
// PUT /api/Lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	var req dto.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lesson, ok := h.store.UpdateLesson(c.Param("id"), func(rec *lessonRecord) {
		rec.Title = req.Title
		rec.FileType = req.FileType
		if req.FileURL != "" {
			rec.FileURL = req.FileURL
		}
		if req.Duration != nil {
			rec.Duration = *req.Duration
		}
		if req.Pages != nil {
			rec.TotalPages = *req.Pages
		}
		if req.Order != nil {
			rec.Order = *req.Order
		}
	})
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrLessonNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderLesson(lesson))
}

// Delete godoc
// DELETE /api/Lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	if !h.store.DeleteLesson(c.Param("id")) {
		response.Fail(c, http.StatusNotFound, response.ErrLessonNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
