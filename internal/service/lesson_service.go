package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// LessonService exposes per-course lesson listings and lesson CRUD.
// Listings are cached per course; any mutation drops that course's entry.
type LessonService struct {
	client   *httpx.Client
	notifier notify.Sink
	log      zerolog.Logger

	mu      sync.Mutex
	byCourse map[string][]model.Lesson
}

// NewLessonService creates a new LessonService.
func NewLessonService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *LessonService {
	return &LessonService{
		client:   client,
		notifier: notifier,
		log:      log.With().Str("component", "lesson_service").Logger(),
		byCourse: make(map[string][]model.Lesson),
	}
}

// List returns a course's lessons ordered by position.
func (s *LessonService) List(ctx context.Context, courseID string) ([]model.Lesson, error) {
	s.mu.Lock()
	cached, ok := s.byCourse[courseID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	var raw []dto.Lesson
	if err := s.client.Get(ctx, "/Courses/"+courseID+"/lessons", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load lessons", err))
		return nil, err
	}

	lessons := mapper.Lessons(raw)
	s.mu.Lock()
	s.byCourse[courseID] = lessons
	s.mu.Unlock()
	return lessons, nil
}

// Get fetches a single lesson.
func (s *LessonService) Get(ctx context.Context, id string) (model.Lesson, error) {
	var raw dto.Lesson
	if err := s.client.Get(ctx, "/Lessons/"+id, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load lesson", err))
		return model.Lesson{}, err
	}
	return mapper.Lesson(raw), nil
}

// Create adds a lesson to a course.
func (s *LessonService) Create(ctx context.Context, courseID string, req dto.CreateLessonRequest) (model.Lesson, error) {
	var raw dto.Lesson
	if err := s.client.Post(ctx, "/Courses/"+courseID+"/lessons", req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not create lesson", err))
		return model.Lesson{}, err
	}

	s.invalidate(courseID)
	s.notifier.Notify(notify.Success("Lesson created", req.Title))
	return mapper.Lesson(raw), nil
}

// Update updates a lesson.
func (s *LessonService) Update(ctx context.Context, lesson model.Lesson, req dto.CreateLessonRequest) (model.Lesson, error) {
	var raw dto.Lesson
	if err := s.client.Put(ctx, "/Lessons/"+lesson.ID, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not update lesson", err))
		return model.Lesson{}, err
	}

	s.invalidate(lesson.CourseID)
	s.notifier.Notify(notify.Success("Lesson updated", req.Title))
	return mapper.Lesson(raw), nil
}

// Delete removes a lesson.
func (s *LessonService) Delete(ctx context.Context, lesson model.Lesson) error {
	if err := s.client.Delete(ctx, "/Lessons/"+lesson.ID); err != nil {
		s.notifier.Notify(notify.FromError("Could not delete lesson", err))
		return err
	}

	s.invalidate(lesson.CourseID)
	s.notifier.Notify(notify.Success("Lesson deleted", ""))
	return nil
}

func (s *LessonService) invalidate(courseID string) {
	s.mu.Lock()
	delete(s.byCourse, courseID)
	s.mu.Unlock()
}
