package httpx

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures for calling code, mirroring the error
// taxonomy the UI layer branches on.
type ErrorKind string

const (
	// KindNetwork covers timeouts, aborts and connection failures.
	KindNetwork ErrorKind = "network"
	// KindClient covers HTTP 4xx other than 401.
	KindClient ErrorKind = "client"
	// KindUnauthorized covers HTTP 401; triggers global session teardown.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindServer covers HTTP 5xx.
	KindServer ErrorKind = "server"
)

// ErrNetwork is the sentinel wrapped into every transport-level failure.
var ErrNetwork = errors.New("network error")

// APIError is the uniform shape every failed request is converted into.
// Calling code never sees raw transport or decoding errors.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Fields     map[string]string
	cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, including ErrNetwork for transport
// failures so errors.Is(err, httpx.ErrNetwork) works.
func (e *APIError) Unwrap() error { return e.cause }

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "The server could not be reached. Please check your connection.",
		cause:   fmt.Errorf("%w: %v", ErrNetwork, err),
	}
}
