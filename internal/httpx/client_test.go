package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(url string, token string) *Client {
	source := TokenSource(func() string { return token })
	return New(url, 2*time.Second, source, zerolog.Nop())
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"ok": "yes"}})
	}))
	defer srv.Close()

	var out map[string]string
	if err := newTestClient(srv.URL, "tok123").Get(context.Background(), "/x", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID not set")
	}
	if out["ok"] != "yes" {
		t.Fatalf("decoded %v", out)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL, "").Get(context.Background(), "/x", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization sent without a token: %q", gotAuth)
	}
}

func TestEnvelopeAndBareBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/enveloped":
			w.Write([]byte(`{"data":{"name":"a"},"metadata":{"request_id":"x"}}`))
		case "/bare":
			w.Write([]byte(`{"name":"b"}`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "t")
	var out struct {
		Name string `json:"name"`
	}

	if err := c.Get(context.Background(), "/enveloped", &out); err != nil || out.Name != "a" {
		t.Fatalf("enveloped: %v %+v", err, out)
	}
	if err := c.Get(context.Background(), "/bare", &out); err != nil || out.Name != "b" {
		t.Fatalf("bare: %v %+v", err, out)
	}
}

func TestErrorShaping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"data":null,"error":{"code":"CONFLICT","message":"Already exists.","fields":{"email":"taken"}}}`))
		case "/bare-message":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"bad input"}`))
		case "/silent-500":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "t")
	ctx := context.Background()

	err := c.Get(ctx, "/conflict", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("not an APIError: %v", err)
	}
	if apiErr.Kind != KindClient || apiErr.Code != "CONFLICT" || apiErr.Message != "Already exists." {
		t.Fatalf("conflict shaped as %+v", apiErr)
	}
	if apiErr.Fields["email"] != "taken" {
		t.Fatalf("fields lost: %v", apiErr.Fields)
	}

	err = c.Get(ctx, "/bare-message", nil)
	if !errors.As(err, &apiErr) || apiErr.Message != "bad input" {
		t.Fatalf("bare message shaped as %v", err)
	}

	err = c.Get(ctx, "/silent-500", nil)
	if !errors.As(err, &apiErr) || apiErr.Kind != KindServer || apiErr.Message == "" {
		t.Fatalf("silent 500 shaped as %v", err)
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "stale")
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	err := c.Get(context.Background(), "/x", nil)
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized = false for %v", err)
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times", fired)
	}
}

func TestNetworkErrorKind(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newTestClient(srv.URL, "t").Get(context.Background(), "/x", nil)
	if !IsNetwork(err) {
		t.Fatalf("IsNetwork = false for %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != KindNetwork {
		t.Fatalf("network failure shaped as %v", err)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond, nil, zerolog.Nop())
	if err := c.Get(context.Background(), "/slow", nil); !IsNetwork(err) {
		t.Fatalf("timeout not surfaced as network error: %v", err)
	}
}
