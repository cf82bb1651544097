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

// ProgressService exposes the learner's lesson-progress list and the upsert
// endpoint. The cache is owned here; the progress tracker drives optimistic
// patches against it.
type ProgressService struct {
	client   *httpx.Client
	cache    *store.Collection[model.LessonProgress]
	notifier notify.Sink
	log      zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *ProgressService {
	return &ProgressService{
		client:   client,
		cache:    store.NewCollection(func(p model.LessonProgress) string { return p.LessonID }),
		notifier: notifier,
		log:      log.With().Str("component", "progress_service").Logger(),
	}
}

// Cache exposes the progress collection for optimistic patching.
func (s *ProgressService) Cache() *store.Collection[model.LessonProgress] {
	return s.cache
}

// List returns the learner's progress entries, served from cache when valid.
func (s *ProgressService) List(ctx context.Context) ([]model.LessonProgress, error) {
	if cached, ok := s.cache.Items(); ok {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh refetches the progress list from the server unconditionally,
// replacing the cache with server truth.
func (s *ProgressService) Refresh(ctx context.Context) ([]model.LessonProgress, error) {
	var raw []dto.LessonProgressDTO
	if err := s.client.Get(ctx, "/LessonProgress", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load progress", err))
		return nil, err
	}

	progress := mapper.LessonProgressList(raw)
	s.cache.Replace(progress)
	return progress, nil
}

// Get returns the cached progress for one lesson.
func (s *ProgressService) Get(lessonID string) (model.LessonProgress, bool) {
	return s.cache.Get(lessonID)
}

// Update upserts a consumption position. Fields in req are independently
// optional; the server merges them.
func (s *ProgressService) Update(ctx context.Context, req dto.UpdateLessonProgressRequest) error {
	return s.client.Post(ctx, "/LessonProgress", req, nil)
}
