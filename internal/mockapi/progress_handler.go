package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// ProgressHandler handles lesson progress endpoints.
type ProgressHandler struct {
	store *Store
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(store *Store) *ProgressHandler {
	return &ProgressHandler{store: store}
}

// List godoc
// GET /api/LessonProgress
// Returns the authenticated learner's progress entries.
func (h *ProgressHandler) List(c *gin.Context) {
	claims := GetClaims(c)

	records := h.store.ProgressFor(claims.UserID)
	out := make([]dto.LessonProgressDTO, 0, len(records))
	for _, p := range records {
		out = append(out, renderProgress(p))
	}
	response.Success(c, http.StatusOK, out)
}

// Upsert godoc
// POST /api/LessonProgress
// Merges the given position into the learner's record for the lesson.
func (h *ProgressHandler) Upsert(c *gin.Context) {
	var req dto.UpdateLessonProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := GetClaims(c)
	p, ok := h.store.UpsertProgress(claims.UserID, req.LessonID, req.CurrentPage, req.CurrentTimeSecond)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrLessonNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderProgress(p))
}
