package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// ReportService consumes the read-only aggregate reporting endpoints used
// by the admin dashboard. Reports are never cached; the dashboard always
// shows server truth.
type ReportService struct {
	client   *httpx.Client
	notifier notify.Sink
	log      zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *ReportService {
	return &ReportService{
		client:   client,
		notifier: notifier,
		log:      log.With().Str("component", "report_service").Logger(),
	}
}

// CourseReport returns per-course completion and score statistics.
func (s *ReportService) CourseReport(ctx context.Context) ([]model.CourseReportRow, error) {
	var raw []dto.CourseReport
	if err := s.client.Get(ctx, "/Reports/courses", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load course report", err))
		return nil, err
	}

	rows := make([]model.CourseReportRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, mapper.CourseReport(r))
	}
	return rows, nil
}

// DepartmentReport returns per-department training statistics.
func (s *ReportService) DepartmentReport(ctx context.Context) ([]model.DepartmentReportRow, error) {
	var raw []dto.DepartmentReport
	if err := s.client.Get(ctx, "/Reports/departments", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load department report", err))
		return nil, err
	}

	rows := make([]model.DepartmentReportRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, mapper.DepartmentReport(r))
	}
	return rows, nil
}

// FeedbackReport returns per-course feedback rating statistics.
func (s *ReportService) FeedbackReport(ctx context.Context) ([]model.FeedbackReportRow, error) {
	var raw []dto.FeedbackReport
	if err := s.client.Get(ctx, "/Reports/feedback", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load feedback report", err))
		return nil, err
	}

	rows := make([]model.FeedbackReportRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, mapper.FeedbackReport(r))
	}
	return rows, nil
}
