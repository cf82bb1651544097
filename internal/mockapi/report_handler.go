package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/response"
)

// ReportHandler serves the read-only aggregate reports.
type ReportHandler struct {
	store *Store
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store *Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// Courses godoc
// GET /api/Reports/courses
func (h *ReportHandler) Courses(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.CourseStats())
}

// Departments godoc
// GET /api/Reports/departments
func (h *ReportHandler) Departments(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.DepartmentStats())
}

// Feedback godoc
// GET /api/Reports/feedback
func (h *ReportHandler) Feedback(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.FeedbackStats())
}
