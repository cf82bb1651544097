package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/auth"
	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/httpx"
	"github.com/hmhbrian/qldt-go/internal/mapper"
	"github.com/hmhbrian/qldt-go/internal/model"
	"github.com/hmhbrian/qldt-go/internal/notify"
)

// AuthService handles login, logout and session lifecycle.
type AuthService struct {
	client   *httpx.Client
	session  *auth.Session
	notifier notify.Sink
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService and registers the global 401
// teardown hook on the HTTP client.
func NewAuthService(client *httpx.Client, session *auth.Session, notifier notify.Sink, log zerolog.Logger) *AuthService {
	s := &AuthService{
		client:   client,
		session:  session,
		notifier: notifier,
		log:      log.With().Str("component", "auth_service").Logger(),
	}

	client.OnUnauthorized(func() {
		s.log.Warn().Msg("Received 401, tearing down session")
		session.Clear()
	})

	return s
}

// Login authenticates and persists the returned token + user.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, error) {
	var res dto.LoginResponse
	req := dto.LoginRequest{Email: email, Password: password}

	if err := s.client.Post(ctx, "/auth/login", req, &res); err != nil {
		s.notifier.Notify(notify.FromError("Sign in failed", err))
		return model.User{}, err
	}

	user := mapper.User(res.User)
	if err := s.session.SetCredentials(res.AccessToken, user); err != nil {
		return model.User{}, fmt.Errorf("persist session: %w", err)
	}

	s.notifier.Notify(notify.Success("Signed in", "Welcome back, "+user.Name+"."))
	return user, nil
}

// Logout tears down the session. The server call is best-effort; local
// state is cleared regardless.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.log.Debug().Err(err).Msg("Logout call failed, clearing local session anyway")
	}
	s.session.Clear()
}

// CurrentUser returns the active session's user.
func (s *AuthService) CurrentUser() (model.User, error) {
	user, ok := s.session.User()
	if !ok {
		return model.User{}, auth.ErrNotAuthenticated
	}
	return user, nil
}
