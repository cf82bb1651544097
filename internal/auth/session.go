// Package auth holds the client's authentication state. The session is an
// explicit object injected into whatever needs it, with an init (hydrate
// from the persisted token) and teardown (logout clears it) lifecycle.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/model"
)

// ErrNotAuthenticated is returned when an operation requires a session and
// none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// persistedSession is the on-disk shape of a saved session.
type persistedSession struct {
	AccessToken string     `json:"accessToken"`
	User        model.User `json:"user"`
}

// Session is the single owner of the bearer token and current user.
type Session struct {
	mu        sync.RWMutex
	tokenFile string
	token     string
	user      model.User
	active    bool
	log       zerolog.Logger
}

// NewSession creates an empty session backed by the given token file.
func NewSession(tokenFile string, log zerolog.Logger) *Session {
	return &Session{
		tokenFile: tokenFile,
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Hydrate loads a previously persisted session from disk. Expired tokens are
// discarded silently; a missing file is not an error.
func (s *Session) Hydrate() error {
	raw, err := os.ReadFile(s.tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var saved persistedSession
	if err := json.Unmarshal(raw, &saved); err != nil {
		s.log.Warn().Err(err).Msg("Discarding unreadable session file")
		_ = os.Remove(s.tokenFile)
		return nil
	}

	if tokenExpired(saved.AccessToken) {
		s.log.Debug().Msg("Persisted token expired, discarding")
		_ = os.Remove(s.tokenFile)
		return nil
	}

	s.mu.Lock()
	s.token = saved.AccessToken
	s.user = saved.User
	s.active = true
	s.mu.Unlock()

	s.log.Debug().Str("user", saved.User.Email).Msg("Session hydrated")
	return nil
}

// SetCredentials stores a fresh token + user and persists them.
func (s *Session) SetCredentials(token string, user model.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.active = true
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.tokenFile), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(persistedSession{AccessToken: token, User: user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.tokenFile, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when unauthenticated.
// Suitable as an httpx.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user and whether a session is active.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active
}

// Clear tears the session down: in-memory state and the persisted file.
// Used by logout and by the global 401 hook.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = model.User{}
	s.active = false
	s.mu.Unlock()

	if err := os.Remove(s.tokenFile); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Msg("Failed to remove session file")
	}
}

// tokenExpired inspects the JWT exp claim without verifying the signature;
// verification is the server's job, the client only avoids sending a token
// it knows is dead.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
