package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/attempt"
	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/forms"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// TestHandler handles test authoring and attempt submission.
type TestHandler struct {
	store *Store
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(store *Store) *TestHandler {
	return &TestHandler{store: store}
}

// ListByCourse godoc
// GET /api/tests/:courseId
func (h *TestHandler) ListByCourse(c *gin.Context) {
	courseID := c.Param("courseId")
	if _, ok := h.store.CourseByID(courseID); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderTests(h.store.TestsByCourse(courseID)))
}

// Get godoc
// GET /api/tests/:courseId/:testId
func (h *TestHandler) Get(c *gin.Context) {
	test, ok := h.store.TestByID(c.Param("testId"))
	if !ok || test.CourseID != c.Param("courseId") {
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderTest(test))
}

// Create godoc
// POST /api/tests/:courseId
func (h *TestHandler) Create(c *gin.Context) {
	courseID := c.Param("courseId")
	if _, ok := h.store.CourseByID(courseID); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var req dto.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	// Cross-field question rules share the authoring draft implementation.
	draft := forms.TestDraft{CreateTestRequest: req}
	if fields := draft.Validate(); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := GetClaims(c)
	creatorName := ""
	if u, ok := h.store.UserByID(claims.UserID); ok {
		creatorName = u.FullName
	}

	test := h.store.AddTest(&testRecord{
		CourseID:      courseID,
		Title:         req.Title,
		PassThreshold: req.PassThreshold,
		TimeTest:      req.TimeTest,
		Questions:     toQuestionRecords(req.Questions),
		CreatedByID:   claims.UserID,
		CreatedByName: creatorName,
	})
	response.Success(c, http.StatusCreated, renderTest(test))
}

// Update godoc
// PUT /api/tests/:courseId/:testId
func (h *TestHandler) Update(c *gin.Context) {
	var req dto.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	draft := forms.TestDraft{CreateTestRequest: req}
	if fields := draft.Validate(); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, ok := h.store.TestByID(c.Param("testId"))
	if !ok || test.CourseID != c.Param("courseId") {
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		return
	}

	updated, _ := h.store.UpdateTest(test.ID, func(rec *testRecord) {
		rec.Title = req.Title
		rec.PassThreshold = req.PassThreshold
		rec.TimeTest = req.TimeTest
		rec.Questions = toQuestionRecords(req.Questions)
	})
	response.Success(c, http.StatusOK, renderTest(updated))
}

// Delete godoc
// DELETE /api/tests/:courseId/:testId
func (h *TestHandler) Delete(c *gin.Context) {
	test, ok := h.store.TestByID(c.Param("testId"))
	if !ok || test.CourseID != c.Param("courseId") {
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		return
	}
	h.store.DeleteTest(test.ID)
	response.Success(c, http.StatusOK, gin.H{})
}

// Submit godoc
// POST /api/tests/submit
// Scores an attempt server-side and records the submission. The learner
// must be enrolled in the test's course.
func (h *TestHandler) Submit(c *gin.Context) {
	var req dto.SubmitTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, ok := h.store.TestByID(req.TestID)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		return
	}

	claims := GetClaims(c)
	if claims.Role == "LEARNER" && !h.store.IsEnrolled(claims.UserID, test.CourseID) {
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
		return
	}

	answers := make(map[string][]string, len(req.Answers))
	for _, a := range req.Answers {
		letters := make([]string, 0, len(a.SelectedOptions))
		for _, l := range a.SelectedOptions {
			letters = append(letters, strings.ToLower(l))
		}
		answers[a.QuestionID] = letters
	}

	result := attempt.Score(mapper.Test(renderTest(test)), answers)

	h.store.AddSubmission(submissionRecord{
		UserID:      claims.UserID,
		TestID:      test.ID,
		Score:       result.Score,
		Passed:      result.IsPassed,
		SubmittedAt: time.Now().UTC(),
	})

	response.Success(c, http.StatusOK, dto.SubmitTestResponse{
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		IsPassed:       result.IsPassed,
	})
}

func toQuestionRecords(payloads []dto.QuestionPayload) []questionRecord {
	out := make([]questionRecord, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, questionRecord{QuestionPayload: p})
	}
	return out
}
