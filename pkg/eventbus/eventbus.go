// Package eventbus defines how ledger events leave the service.
package eventbus

import (
	"context"

	"github.com/amirasaad/goldvault/pkg/domain/events"
)

// HandlerFunc consumes one event. Returning an error marks delivery as failed
// for transports that retry or dead-letter.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus publishes ledger events and dispatches them to registered handlers.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, e events.Event) error
}

// AllEvents registers a handler for every event type.
const AllEvents = "*"
