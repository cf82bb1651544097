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

// DepartmentService exposes department listing and CRUD.
type DepartmentService struct {
	client   *httpx.Client
	cache    *store.Collection[model.Department]
	notifier notify.Sink
	log      zerolog.Logger
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		client:   client,
		cache:    store.NewCollection(func(d model.Department) string { return d.ID }),
		notifier: notifier,
		log:      log.With().Str("component", "department_service").Logger(),
	}
}

// List returns all departments, served from cache when valid.
func (s *DepartmentService) List(ctx context.Context) ([]model.Department, error) {
	if cached, ok := s.cache.Items(); ok {
		return cached, nil
	}

	var raw []dto.DepartmentDTO
	if err := s.client.Get(ctx, "/Departments", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load departments", err))
		return nil, err
	}

	departments := make([]model.Department, 0, len(raw))
	for _, d := range raw {
		departments = append(departments, mapper.Department(d))
	}
	s.cache.Replace(departments)
	return departments, nil
}

// Create creates a department.
func (s *DepartmentService) Create(ctx context.Context, req dto.CreateDepartmentRequest) (model.Department, error) {
	var raw dto.DepartmentDTO
	if err := s.client.Post(ctx, "/Departments", req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not create department", err))
		return model.Department{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Department created", req.Name))
	return mapper.Department(raw), nil
}

// Update updates a department.
func (s *DepartmentService) Update(ctx context.Context, id string, req dto.CreateDepartmentRequest) (model.Department, error) {
	var raw dto.DepartmentDTO
	if err := s.client.Put(ctx, "/Departments/"+id, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not update department", err))
		return model.Department{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Department updated", req.Name))
	return mapper.Department(raw), nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/Departments/"+id); err != nil {
		s.notifier.Notify(notify.FromError("Could not delete department", err))
		return err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("Department deleted", ""))
	return nil
}
