// Package notify defines the user-facing notification contract. Services
// convert every failure into a Notification; calling code never receives a
// raw transport error or stack trace.
package notify

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/hmhbrian/qldt-go/internal/httpx"
)

// Variant selects the presentation style of a notification.
type Variant string

const (
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
	VariantNeutral     Variant = "neutral"
)

// Notification is a toast/banner-equivalent message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Sink receives notifications for display.
type Sink interface {
	Notify(n Notification)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(n Notification)

// Notify implements Sink.
func (f SinkFunc) Notify(n Notification) { f(n) }

// LogSink writes notifications to a zerolog logger. Used by the CLI and as
// the default when no UI sink is registered.
type LogSink struct {
	Log zerolog.Logger
}

// Notify implements Sink.
func (s LogSink) Notify(n Notification) {
	evt := s.Log.Info()
	if n.Variant == VariantDestructive {
		evt = s.Log.Error()
	}
	evt.Str("title", n.Title).Msg(n.Description)
}

// Success builds a success notification.
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantSuccess}
}

// FromError maps a failure into a destructive notification following the
// API error taxonomy: network and 5xx get generic retry messaging, 4xx get
// the backend's own message when present.
func FromError(title string, err error) Notification {
	n := Notification{Title: title, Variant: VariantDestructive}

	var apiErr *httpx.APIError
	switch {
	case errors.As(err, &apiErr):
		n.Description = apiErr.Message
	case err != nil:
		n.Description = err.Error()
	default:
		n.Description = "An unexpected error occurred."
	}
	return n
}
