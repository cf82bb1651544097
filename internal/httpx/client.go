// Package httpx wraps net/http with base URL resolution, bearer token
// injection, request timeouts and uniform error shaping. Every call either
// decodes the standard response envelope into the caller's type or returns
// an *APIError; raw transport errors never escape.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/response"
)

// TokenSource supplies the current bearer token; empty string means
// unauthenticated (the Authorization header is omitted).
type TokenSource func() string

// UnauthorizedHook is invoked once per 401 response so the session layer can
// tear down stored credentials independent of the calling component.
type UnauthorizedHook func()

// Client is the shared HTTP client for all resource services.
type Client struct {
	baseURL        string
	http           *http.Client
	tokenSource    TokenSource
	onUnauthorized UnauthorizedHook
	log            zerolog.Logger
}

// New creates a Client. timeout bounds every request via context deadline;
// the request is aborted when it elapses and surfaced as a network error.
func New(baseURL string, timeout time.Duration, tokenSource TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		tokenSource: tokenSource,
		log:         log.With().Str("component", "httpx").Logger(),
	}
}

// OnUnauthorized registers the global 401 teardown hook.
func (c *Client) OnUnauthorized(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// Get issues a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindClient, Message: "invalid request payload", cause: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Kind: KindClient, Message: "invalid request", cause: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	// Login is the only call issued without a token; the source decides.
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Transport failure")
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode >= 400 {
		return c.shapeError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return decodeData(raw, out)
}

// shapeError converts a non-2xx response into the uniform *APIError,
// extracting the backend message when the body carries one.
func (c *Client) shapeError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error *response.ErrorBody `json:"error"`
		// Some backend routes return a bare {message} body instead.
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != nil {
			apiErr.Code = string(envelope.Error.Code)
			apiErr.Message = envelope.Error.Message
			apiErr.Fields = envelope.Error.Fields
		} else if envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		if apiErr.Message == "" {
			apiErr.Message = "Your session has expired. Please sign in again."
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	case status >= 500:
		apiErr.Kind = KindServer
		if apiErr.Message == "" {
			apiErr.Message = "Something went wrong. Please try again later."
		}
	default:
		apiErr.Kind = KindClient
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("The request was rejected (HTTP %d).", status)
		}
	}

	return apiErr
}

// decodeData unwraps the {data: ...} envelope when present, otherwise treats
// the whole body as the payload.
func decodeData(raw []byte, out interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{
			Kind:    KindServer,
			Message: "The server returned an unexpected response.",
			cause:   fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}
