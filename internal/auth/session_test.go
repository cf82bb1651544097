package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/model"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	file := filepath.Join(t.TempDir(), "session.json")
	return NewSession(file, zerolog.Nop())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestSessionStartsInactive(t *testing.T) {
	s := newTestSession(t)
	if s.Token() != "" {
		t.Fatal("fresh session has a token")
	}
	if _, ok := s.User(); ok {
		t.Fatal("fresh session reports active")
	}
}

func TestSetCredentialsPersistsAndHydrates(t *testing.T) {
	s := newTestSession(t)
	token := signedToken(t, time.Now().Add(time.Hour))
	user := model.User{ID: "u1", Email: "a@b.c", Role: model.UserRoleAdmin}

	if err := s.SetCredentials(token, user); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	if s.Token() != token {
		t.Fatal("token not held in memory")
	}

	// A second session over the same file picks the credentials up.
	restored := NewSession(s.tokenFile, zerolog.Nop())
	if err := restored.Hydrate(); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if restored.Token() != token {
		t.Fatal("token not restored")
	}
	got, ok := restored.User()
	if !ok || got.Email != "a@b.c" || got.Role != model.UserRoleAdmin {
		t.Fatalf("user restored as %+v, %v", got, ok)
	}
}

func TestHydrateMissingFileIsNotAnError(t *testing.T) {
	s := newTestSession(t)
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate on missing file: %v", err)
	}
	if _, ok := s.User(); ok {
		t.Fatal("session active without a file")
	}
}

func TestHydrateDiscardsExpiredToken(t *testing.T) {
	s := newTestSession(t)
	expired := signedToken(t, time.Now().Add(-time.Minute))
	if err := s.SetCredentials(expired, model.User{ID: "u1"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	restored := NewSession(s.tokenFile, zerolog.Nop())
	if err := restored.Hydrate(); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if restored.Token() != "" {
		t.Fatal("expired token hydrated")
	}
	if _, err := os.Stat(s.tokenFile); !os.IsNotExist(err) {
		t.Fatal("expired session file not removed")
	}
}

func TestHydrateDiscardsCorruptFile(t *testing.T) {
	s := newTestSession(t)
	if err := os.WriteFile(s.tokenFile, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Hydrate(); err != nil {
		t.Fatalf("Hydrate on corrupt file: %v", err)
	}
	if s.Token() != "" {
		t.Fatal("corrupt file produced a token")
	}
}

func TestClearRemovesStateAndFile(t *testing.T) {
	s := newTestSession(t)
	token := signedToken(t, time.Now().Add(time.Hour))
	if err := s.SetCredentials(token, model.User{ID: "u1"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	s.Clear()

	if s.Token() != "" {
		t.Fatal("token survived Clear")
	}
	if _, ok := s.User(); ok {
		t.Fatal("session active after Clear")
	}
	if _, err := os.Stat(s.tokenFile); !os.IsNotExist(err) {
		t.Fatal("session file survived Clear")
	}
}
