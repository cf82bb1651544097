package service

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
	"github.com/hmhbrian/qldt-go/internal/store"
)

// UserService exposes user administration: listing, search, CRUD, password
// reset and soft delete.
type UserService struct {
	client   *httpx.Client
	cache    *store.Collection[model.User]
	notifier notify.Sink
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(client *httpx.Client, notifier notify.Sink, log zerolog.Logger) *UserService {
	return &UserService{
		client:   client,
		cache:    store.NewCollection(func(u model.User) string { return u.ID }),
		notifier: notifier,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// List returns all users, served from cache when valid.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	if cached, ok := s.cache.Items(); ok {
		return cached, nil
	}

	var raw []dto.User
	if err := s.client.Get(ctx, "/Users", &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not load users", err))
		return nil, err
	}

	users := mapper.Users(raw)
	s.cache.Replace(users)
	return users, nil
}

// Search queries users by name or email. Results are not cached.
func (s *UserService) Search(ctx context.Context, query string) ([]model.User, error) {
	var raw []dto.User
	path := "/Users/search?q=" + url.QueryEscape(query)
	if err := s.client.Get(ctx, path, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Search failed", err))
		return nil, err
	}
	return mapper.Users(raw), nil
}

// Create creates a user account.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (model.User, error) {
	var raw dto.User
	if err := s.client.Post(ctx, "/Users", req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not create user", err))
		return model.User{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("User created", req.Email))
	return mapper.User(raw), nil
}

// Update updates a user account.
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (model.User, error) {
	var raw dto.User
	if err := s.client.Put(ctx, "/Users/"+id, req, &raw); err != nil {
		s.notifier.Notify(notify.FromError("Could not update user", err))
		return model.User{}, err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("User updated", raw.Email))
	return mapper.User(raw), nil
}

// ResetPassword sets a new password for the given user.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	req := dto.ResetPasswordRequest{NewPassword: newPassword}
	if err := s.client.Post(ctx, "/Users/"+id+"/reset-password", req, nil); err != nil {
		s.notifier.Notify(notify.FromError("Password reset failed", err))
		return err
	}

	s.notifier.Notify(notify.Success("Password reset", "The user can now sign in with the new password."))
	return nil
}

// SoftDelete deactivates a user account without removing its records. The
// cached entry is patched optimistically and reverted on failure.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	rollback := s.cache.BeginOptimistic()
	s.cache.Patch(id, func(u *model.User) { u.Status = model.UserStatusDeleted })

	if err := s.client.Post(ctx, "/Users/"+id+"/soft-delete", nil, nil); err != nil {
		rollback()
		s.notifier.Notify(notify.FromError("Could not delete user", err))
		return err
	}

	s.cache.Invalidate()
	s.notifier.Notify(notify.Success("User deleted", ""))
	return nil
}
