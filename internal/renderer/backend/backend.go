// Package backend provides the platform layer: a source of raw input
// notifications and a minimal text render sink.
package backend

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/scribe/internal/input/key"
)

// EventType identifies the type of platform notification.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventFocus
	EventQuit
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventPaste:
		return "paste"
	case EventFocus:
		return "focus"
	case EventQuit:
		return "quit"
	default:
		return "none"
	}
}

// Event is a raw platform notification.
type Event struct {
	Type EventType

	// Key event fields. Control letters arrive as key.KeyRune with the
	// letter in Rune and key.ModCtrl set.
	Key  key.Key
	Rune rune
	Mod  key.Modifier

	// Resize event fields
	Width, Height int

	// Paste event fields
	Text string

	// Focus event fields
	Focused bool
}

// Backend defines the interface for display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current display dimensions in cells.
	Size() (width, height int)

	// PollEvents returns every notification received since the last call.
	// It never blocks and returns nil when nothing is pending.
	PollEvents() []Event

	// PostEvent posts a synthetic notification to the event queue.
	PostEvent(ev Event)

	// SetTitle sets the window caption where supported.
	SetTitle(title string)

	// Clear fills the display with the background colour.
	Clear(bg colorful.Color)

	// DrawText draws text starting at (x, y) and returns the column after
	// the last cell written. Text past the right edge is dropped.
	DrawText(x, y int, text string, fg, bg colorful.Color) int

	// Show flushes pending drawing to the display.
	Show()
}
