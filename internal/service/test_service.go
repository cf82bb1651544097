package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// TestService exposes per-course test listings, test/question authoring and
// attempt submission.
type TestService struct {
	client   *httpx.Client
	notifier notify.Sink
	log      zerolog.Logger

	mu       sync.Mutex
	byCourse map[string][]model.Test
}

// NewTestService creates a new TestService.
func NewTestService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *TestService {
	return &TestService{
		client:   client,
		notifier: notifier,
		log:      log.With().Str("component", "test_service").Logger(),
		byCourse: make(map[string][]model.Test),
	}
}

// List returns a course's tests.
func (s *TestService) List(ctx context.Context, courseID string) ([]model.Test, error) {
	s.mu.Lock()
	cached, ok := s.byCourse[courseID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	var raw []dto.Test
	if err := s.client.Get(ctx, "/tests/"+courseID, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load tests", err))
		return nil, err
	}

	tests := mapper.Tests(raw)
	s.mu.Lock()
	s.byCourse[courseID] = tests
	s.mu.Unlock()
	return tests, nil
}

// Get fetches one test with its full ordered question list.
func (s *TestService) Get(ctx context.Context, courseID, testID string) (model.Test, error) {
	var raw dto.Test
	if err := s.client.Get(ctx, "/tests/"+courseID+"/"+testID, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load test", err))
		return model.Test{}, err
	}
	return mapper.Test(raw), nil
}

// Create authors a new test under a course.
func (s *TestService) Create(ctx context.Context, courseID string, req dto.CreateTestRequest) (model.Test, error) {
	var raw dto.Test
	if err := s.client.Post(ctx, "/tests/"+courseID, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not create test", err))
		return model.Test{}, err
	}

	s.invalidate(courseID)
	s.notifier.Notify(notify.Success("Test created", req.Title))
	return mapper.Test(raw), nil
}

// Update replaces a test's settings and questions.
func (s *TestService) Update(ctx context.Context, courseID, testID string, req dto.CreateTestRequest) (model.Test, error) {
	var raw dto.Test
	if err := s.client.Put(ctx, "/tests/"+courseID+"/"+testID, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not update test", err))
		return model.Test{}, err
	}

	s.invalidate(courseID)
	s.notifier.Notify(notify.Success("Test updated", req.Title))
	return mapper.Test(raw), nil
}

// Delete removes a test.
func (s *TestService) Delete(ctx context.Context, courseID, testID string) error {
	if err := s.client.Delete(ctx, "/tests/"+courseID+"/"+testID); err != nil {
		s.notifier.Notify(notify.FromError("Could not delete test", err))
		return err
	}

	s.invalidate(courseID)
	s.notifier.Notify(notify.Success("Test deleted", ""))
	return nil
}

// Submit sends a completed attempt to the server and returns the
// authoritative result. Callers (the attempt engine) treat failures as
// non-fatal and fall back to the locally computed score.
func (s *TestService) Submit(ctx context.Context, submission model.TestSubmission) (model.TestResult, error) {
	req := dto.SubmitTestRequest{
		TestID:    submission.TestID,
		StartedAt: submission.StartedAt.UTC().Format(time.RFC3339),
	}
	for _, a := range submission.Answers {
		req.Answers = append(req.Answers, dto.AnswerSubmission{
			QuestionID:      a.QuestionID,
			SelectedOptions: a.SelectedOptions,
		})
	}

	var res dto.SubmitTestResponse
	if err := s.client.Post(ctx, "/tests/submit", req, &res); err != nil {
		return model.TestResult{}, err
	}

	return model.TestResult{
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		CorrectAnswers: res.CorrectAnswers,
		IsPassed:       res.IsPassed,
	}, nil
}

func (s *TestService) invalidate(courseID string) {
	s.mu.Lock()
	delete(s.byCourse, courseID)
	s.mu.Unlock()
}
