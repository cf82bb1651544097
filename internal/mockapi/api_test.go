package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hmhbrian/qldt-go/internal/config"
	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
)

func testConfig() *config.Config {
	return &config.Config{
		MockJWTSecret: "api-test-secret",
		MockJWTExpiry: time.Hour,
		BcryptCost:    4,
	}
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := testConfig()
	store := NewStore()
	tokens := NewTokenService(cfg)
	if err := Seed(store, tokens); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(NewRouter(cfg, store, tokens))
	t.Cleanup(srv.Close)
	return srv
}

// call issues a request and decodes the response envelope.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, json.RawMessage, *response.ErrorBody) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Data  json.RawMessage     `json:"data"`
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	return resp.StatusCode, envelope.Data, envelope.Error
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	status, data, apiErr := call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d, error %+v", email, status, apiErr)
	}
	var out dto.LoginResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("login %s: decode: %v", email, err)
	}
	return out.AccessToken
}

func TestLoginFlow(t *testing.T) {
	srv := newAPI(t)

	status, _, apiErr := call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": SeedAdminEmail, "password": "wrong-password",
	})
	if status != http.StatusUnauthorized || apiErr == nil || apiErr.Code != response.ErrInvalidCredentials {
		t.Fatalf("wrong password: status %d, error %+v", status, apiErr)
	}

	status, _, apiErr = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "not-an-email", "password": "x",
	})
	if status != http.StatusBadRequest || apiErr == nil || apiErr.Code != response.ErrValidation {
		t.Fatalf("invalid payload: status %d, error %+v", status, apiErr)
	}
	if apiErr.Fields["email"] == "" || apiErr.Fields["password"] == "" {
		t.Fatalf("field errors missing: %v", apiErr.Fields)
	}

	token := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	status, data, _ := call(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	var me dto.User
	if err := json.Unmarshal(data, &me); err != nil {
		t.Fatalf("me: decode: %v", err)
	}
	if me.Email != SeedAdminEmail || me.Role.Name != "ADMIN" {
		t.Fatalf("me = %+v", me)
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newAPI(t)

	status, _, apiErr := call(t, srv, http.MethodGet, "/api/Courses", "", nil)
	if status != http.StatusUnauthorized || apiErr == nil || apiErr.Code != response.ErrTokenRequired {
		t.Fatalf("no token: status %d, error %+v", status, apiErr)
	}

	status, _, apiErr = call(t, srv, http.MethodGet, "/api/Courses", "garbage-token", nil)
	if status != http.StatusUnauthorized || apiErr == nil || apiErr.Code != response.ErrTokenInvalid {
		t.Fatalf("bad token: status %d, error %+v", status, apiErr)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)

	status, _, apiErr := call(t, srv, http.MethodGet, "/api/Users", learner, nil)
	if status != http.StatusForbidden || apiErr == nil || apiErr.Code != response.ErrAdminAccessOnly {
		t.Fatalf("learner on admin route: status %d, error %+v", status, apiErr)
	}
}

func TestLearnerSeesOnlyPublishedCourses(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)
	admin := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/Courses", learner, nil)
	var visible []dto.Course
	if err := json.Unmarshal(data, &visible); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, c := range visible {
		if c.Status.Name != "PUBLISHED" {
			t.Fatalf("learner sees %s course %q", c.Status.Name, c.Name)
		}
	}

	_, data, _ = call(t, srv, http.MethodGet, "/api/Courses", admin, nil)
	var all []dto.Course
	if err := json.Unmarshal(data, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) <= len(visible) {
		t.Fatalf("admin sees %d courses, learner %d; draft not hidden", len(all), len(visible))
	}
}

func TestEnrollmentConflicts(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)
	admin := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/Courses", admin, nil)
	var courses []dto.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var enrolledID, draftID string
	for _, c := range courses {
		switch {
		case c.CourseCode == "SAFE-101":
			enrolledID = c.ID
		case c.Status.Name == "DRAFT":
			draftID = c.ID
		}
	}
	if enrolledID == "" || draftID == "" {
		t.Fatalf("seed courses not found in %+v", courses)
	}

	status, _, apiErr := call(t, srv, http.MethodPost, "/api/Courses/"+enrolledID+"/enroll", learner, nil)
	if status != http.StatusConflict || apiErr == nil || apiErr.Code != response.ErrAlreadyEnrolled {
		t.Fatalf("double enroll: status %d, error %+v", status, apiErr)
	}

	status, _, apiErr = call(t, srv, http.MethodPost, "/api/Courses/"+draftID+"/enroll", learner, nil)
	if status != http.StatusConflict || apiErr == nil || apiErr.Code != response.ErrCourseUnavailable {
		t.Fatalf("enroll in draft: status %d, error %+v", status, apiErr)
	}
}

func TestSubmitScoring(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)
	admin := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/Courses", learner, nil)
	var courses []dto.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		t.Fatalf("decode courses: %v", err)
	}
	var courseID string
	for _, c := range courses {
		if c.CourseCode == "SAFE-101" {
			courseID = c.ID
		}
	}

	_, data, _ = call(t, srv, http.MethodGet, "/api/tests/"+courseID, learner, nil)
	var tests []dto.Test
	if err := json.Unmarshal(data, &tests); err != nil || len(tests) != 1 {
		t.Fatalf("tests = %v (%v)", tests, err)
	}

	_, data, _ = call(t, srv, http.MethodGet, fmt.Sprintf("/api/tests/%s/%s", courseID, tests[0].ID), learner, nil)
	var test dto.Test
	if err := json.Unmarshal(data, &test); err != nil || len(test.Questions) != 2 {
		t.Fatalf("test = %+v (%v)", test, err)
	}

	startedAt := time.Now().UTC().Format(time.RFC3339)
	submit := func(token string, answers []dto.AnswerSubmission) (int, dto.SubmitTestResponse, *response.ErrorBody) {
		status, raw, apiErr := call(t, srv, http.MethodPost, "/api/tests/submit", token, dto.SubmitTestRequest{
			TestID:    test.ID,
			Answers:   answers,
			StartedAt: startedAt,
		})
		var out dto.SubmitTestResponse
		if status == http.StatusOK {
			if err := json.Unmarshal(raw, &out); err != nil {
				t.Fatalf("decode result: %v", err)
			}
		}
		return status, out, apiErr
	}

	// Both correct: 100%, passes the 70% threshold.
	status, result, _ := submit(learner, []dto.AnswerSubmission{
		{QuestionID: test.Questions[0].ID, SelectedOptions: []string{"B", "c"}},
		{QuestionID: test.Questions[1].ID, SelectedOptions: []string{"a", "b"}},
	})
	if status != http.StatusOK || result.Score != 100 || !result.IsPassed || result.CorrectAnswers != 2 {
		t.Fatalf("full marks: status %d, result %+v", status, result)
	}

	// One wrong (partial selection does not count): 50%, below threshold.
	status, result, _ = submit(learner, []dto.AnswerSubmission{
		{QuestionID: test.Questions[0].ID, SelectedOptions: []string{"b"}},
		{QuestionID: test.Questions[1].ID, SelectedOptions: []string{"a", "b"}},
	})
	if status != http.StatusOK || result.Score != 50 || result.IsPassed {
		t.Fatalf("half marks: status %d, result %+v", status, result)
	}

	// A learner who is not enrolled in the course cannot submit.
	status, _, apiErr := submit(loginNewLearner(t, srv, admin), nil)
	if status != http.StatusForbidden || apiErr == nil || apiErr.Code != response.ErrNotEnrolled {
		t.Fatalf("unenrolled submit: status %d, error %+v", status, apiErr)
	}
}

// loginNewLearner provisions a fresh learner with no enrollments and signs
// them in.
func loginNewLearner(t *testing.T, srv *httptest.Server, adminToken string) string {
	t.Helper()
	status, _, apiErr := call(t, srv, http.MethodPost, "/api/Users", adminToken, dto.CreateUserRequest{
		FullName: "Fresh Learner",
		Email:    "fresh@qldt.local",
		Password: "fresh-pass-1",
		Role:     "LEARNER",
	})
	if status != http.StatusCreated {
		t.Fatalf("create learner: status %d, error %+v", status, apiErr)
	}
	return login(t, srv, "fresh@qldt.local", "fresh-pass-1")
}

func TestTestAuthoringValidation(t *testing.T) {
	srv := newAPI(t)
	admin := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/Courses", admin, nil)
	var courses []dto.Course
	if err := json.Unmarshal(data, &courses); err != nil || len(courses) == 0 {
		t.Fatalf("courses = %v (%v)", courses, err)
	}
	courseID := courses[0].ID

	// single_choice with two correct letters violates the cross-field rule.
	status, _, apiErr := call(t, srv, http.MethodPost, "/api/tests/"+courseID, admin, dto.CreateTestRequest{
		Title:         "Broken Quiz",
		PassThreshold: 50,
		Questions: []dto.QuestionPayload{{
			QuestionText:  "Pick one",
			QuestionType:  "single_choice",
			OptionA:       "yes",
			OptionB:       "no",
			CorrectOption: "a,b",
		}},
	})
	if status != http.StatusBadRequest || apiErr == nil || apiErr.Code != response.ErrValidation {
		t.Fatalf("cross-field rule: status %d, error %+v", status, apiErr)
	}
	if len(apiErr.Fields) == 0 {
		t.Fatal("no field details on validation failure")
	}

	status, _, _ = call(t, srv, http.MethodPost, "/api/tests/"+courseID, admin, dto.CreateTestRequest{
		Title:         "Working Quiz",
		PassThreshold: 50,
		Questions: []dto.QuestionPayload{{
			QuestionText:  "Pick one",
			QuestionType:  "single_choice",
			OptionA:       "yes",
			OptionB:       "no",
			CorrectOption: "a",
		}},
	})
	if status != http.StatusCreated {
		t.Fatalf("valid quiz rejected: status %d", status)
	}
}

func TestProgressUpsertAndCompletion(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/LessonProgress", learner, nil)
	var before []dto.LessonProgressDTO
	if err := json.Unmarshal(data, &before); err != nil || len(before) == 0 {
		t.Fatalf("seed progress = %v (%v)", before, err)
	}

	var pdfLesson string
	for _, p := range before {
		if p.CurrentPage != nil {
			pdfLesson = p.LessonID
		}
	}
	if pdfLesson == "" {
		t.Fatal("no pdf progress in seed data")
	}

	// Finishing the 24-page handbook drives completion to 100.
	page := 24
	status, _, apiErr := call(t, srv, http.MethodPost, "/api/LessonProgress", learner, dto.UpdateLessonProgressRequest{
		LessonID:    pdfLesson,
		CurrentPage: &page,
	})
	if status != http.StatusOK {
		t.Fatalf("upsert: status %d, error %+v", status, apiErr)
	}

	_, data, _ = call(t, srv, http.MethodGet, "/api/LessonProgress", learner, nil)
	var after []dto.LessonProgressDTO
	if err := json.Unmarshal(data, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, p := range after {
		if p.LessonID == pdfLesson {
			if p.CurrentPage == nil || *p.CurrentPage != 24 {
				t.Fatalf("page not updated: %+v", p)
			}
			if p.Completion == nil || *p.Completion != 100 {
				t.Fatalf("completion = %+v", p.Completion)
			}
			return
		}
	}
	t.Fatal("updated lesson missing from progress list")
}

func TestProgressUnknownLesson(t *testing.T) {
	srv := newAPI(t)
	learner := login(t, srv, SeedLearnerEmail, SeedLearnerPassword)

	page := 1
	status, _, apiErr := call(t, srv, http.MethodPost, "/api/LessonProgress", learner, dto.UpdateLessonProgressRequest{
		LessonID:    "missing",
		CurrentPage: &page,
	})
	if status != http.StatusNotFound || apiErr == nil || apiErr.Code != response.ErrLessonNotFound {
		t.Fatalf("unknown lesson: status %d, error %+v", status, apiErr)
	}
}

func TestDepartmentDeleteConflict(t *testing.T) {
	srv := newAPI(t)
	admin := login(t, srv, SeedAdminEmail, SeedAdminPassword)

	_, data, _ := call(t, srv, http.MethodGet, "/api/Departments", admin, nil)
	var departments []dto.DepartmentDTO
	if err := json.Unmarshal(data, &departments); err != nil || len(departments) == 0 {
		t.Fatalf("departments = %v (%v)", departments, err)
	}

	var engineering string
	for _, d := range departments {
		if d.Name == "Engineering" {
			engineering = d.ID
		}
	}

	// Engineering has members, courses and a child department.
	status, _, apiErr := call(t, srv, http.MethodDelete, "/api/Departments/"+engineering, admin, nil)
	if status != http.StatusConflict || apiErr == nil || apiErr.Code != response.ErrDependencyExists {
		t.Fatalf("delete in-use department: status %d, error %+v", status, apiErr)
	}

	status, _, _ = call(t, srv, http.MethodPost, "/api/Departments", admin, dto.CreateDepartmentRequest{Name: "Temporary"})
	if status != http.StatusCreated {
		t.Fatalf("create department: status %d", status)
	}
}

func TestLoginRateLimit(t *testing.T) {
	srv := newAPI(t)

	var last int
	for i := 0; i < 31; i++ {
		last, _, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": SeedAdminEmail, "password": "wrong-password",
		})
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("31st login attempt: status %d, want 429", last)
	}
}
