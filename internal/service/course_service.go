package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
	"github.com/hmhbrian/qldt-go/internal/store"
)

// CourseService exposes the course catalog and course CRUD. Reads go through
// the client-side cache; every mutation invalidates it so the next read is
// fresh from the server.
type CourseService struct {
	client   *httpx.Client
	cache    *store.Collection[model.Course]
	notifier notify.Sink
	log      zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *CourseService {
	return &CourseService{
		client:   client,
		cache:    store.NewCollection(func(c model.Course) string { return c.ID }),
		notifier: notifier,
		log:      log.With().Str("component", "course_service").Logger(),
	}
}

// List returns the course catalog, served from cache when valid.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	if cached, ok := s.cache.Items(); ok {
		return cached, nil
	}

	var raw []dto.Course
	if err := s.client.Get(ctx, "/Courses", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load courses", err))
		return nil, err
	}

	courses := mapper.Courses(raw)
	s.cache.Replace(courses)
	return courses, nil
}

// Get fetches a single course by ID, bypassing the list cache so detail
// views always show server truth.
func (s *CourseService) Get(ctx context.Context, id string) (model.Course, error) {
	var raw dto.Course
	if err := s.client.Get(ctx, "/Courses/"+id, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load course", err))
		return model.Course{}, err
	}
	return mapper.Course(raw), nil
}

// Create creates a new course and invalidates the catalog cache.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (model.Course, error) {
	var raw dto.Course
	if err := s.client.Post(ctx, "/Courses", req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not create course", err))
		return model.Course{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Course created", req.Name))
	return mapper.Course(raw), nil
}

// Update updates a course and invalidates the catalog cache.
func (s *CourseService) Update(ctx context.Context, id string, req dto.UpdateCourseRequest) (model.Course, error) {
	var raw dto.Course
	if err := s.client.Put(ctx, "/Courses/"+id, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not update course", err))
		return model.Course{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Course updated", raw.Name))
	return mapper.Course(raw), nil
}

// Delete removes a course and invalidates the catalog cache.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/Courses/"+id); err != nil {
		s.notifier.Notify(notify.FromError("Could not delete course", err))
		return err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Course deleted", ""))
	return nil
}

// Enroll enrolls the current user in a course. The cached entry is patched
// optimistically and reverted if the call fails.
func (s *CourseService) Enroll(ctx context.Context, id string) error {
	rollback := s.cache.BeginOptimistic()
	s.cache.Patch(id, func(c *model.Course) {
		c.IsEnrolled = true
		c.EnrolledCount++
	})

	if err := s.client.Post(ctx, "/Courses/"+id+"/enroll", nil, nil); err != nil {
		rollback()
		s.notifier.Notify(notify.FromError("Enrollment failed", err))
		return err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Enrolled", "You are now enrolled in this course."))
	return nil
}

// Enrolled returns the current user's enrolled courses.
func (s *CourseService) Enrolled(ctx context.Context) ([]model.Course, error) {
	var raw []dto.Course
	if err := s.client.Get(ctx, "/Courses/enrolled", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load your courses", err))
		return nil, err
	}
	return mapper.Courses(raw), nil
}
