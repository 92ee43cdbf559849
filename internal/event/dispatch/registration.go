package dispatch

import (
	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/event"
)

// Callback handles a dispatched event.
type Callback func(ev event.Event) error

// Registration pairs a pattern with the callback it triggers.
type Registration struct {
	id       uuid.UUID
	pattern  event.Event
	callback Callback
	muted    bool
}

// ID returns the registration's unique identifier.
func (r *Registration) ID() uuid.UUID {
	return r.id
}

// Pattern returns the pattern the registration was added with.
func (r *Registration) Pattern() event.Event {
	return r.pattern
}
