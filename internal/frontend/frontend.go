package frontend

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// Source yields the events that arrived since the previous call.
// It must not block; an empty batch means nothing is pending.
type Source interface {
	Poll() []event.Event
}

// View is what a frame shows.
type View struct {
	Caption    string
	Background colorful.Color
	Foreground colorful.Color

	// Lines are drawn from the top. When they do not fit, the last lines
	// are shown.
	Lines []string

	// Status is drawn on the bottom row.
	Status string
}

// Frontend is a Source backed by a display backend.
type Frontend struct {
	backend backend.Backend
	logger  zerolog.Logger
	caption string
}

// Option configures a Frontend.
type Option func(*Frontend)

// WithLogger sets the logger for unrecognized notifications.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Frontend) {
		f.logger = l
	}
}

// New creates a frontend over an initialized backend.
func New(b backend.Backend, opts ...Option) *Frontend {
	f := &Frontend{
		backend: b,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Poll converts every pending backend notification.
func (f *Frontend) Poll() []event.Event {
	raw := f.backend.PollEvents()
	if len(raw) == 0 {
		return nil
	}

	out := make([]event.Event, 0, len(raw))
	for _, ev := range raw {
		converted := Convert(ev)
		if converted.Kind() == event.KindUnknown {
			f.logger.Trace().Stringer("type", ev.Type).Msg("unrecognized notification")
		}
		out = append(out, converted)
	}
	return out
}

// Render draws v and flushes it to the display.
func (f *Frontend) Render(v View) {
	if v.Caption != f.caption {
		f.backend.SetTitle(v.Caption)
		f.caption = v.Caption
	}

	f.backend.Clear(v.Background)
	_, height := f.backend.Size()
	if height <= 0 {
		f.backend.Show()
		return
	}

	rows := height - 1
	lines := v.Lines
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for y, line := range lines {
		f.backend.DrawText(0, y, line, v.Foreground, v.Background)
	}
	f.backend.DrawText(0, height-1, v.Status, v.Background, v.Foreground)
	f.backend.Show()
}

// Backend returns the underlying backend.
func (f *Frontend) Backend() backend.Backend {
	return f.backend
}
