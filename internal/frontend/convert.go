package frontend

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/input/key"
	"github.com/dshills/scribe/internal/renderer/backend"
)

// Convert maps a backend notification to a complete event.
func Convert(ev backend.Event) event.Event {
	switch ev.Type {
	case backend.EventKey:
		return convertKey(ev)
	case backend.EventResize:
		return event.NewResize(ev.Width, ev.Height)
	case backend.EventPaste:
		return event.NewPaste(normalizePaste(ev.Text))
	case backend.EventQuit:
		return &event.QuitEvent{}
	default:
		return &event.UnknownEvent{}
	}
}

func convertKey(ev backend.Event) event.Event {
	if ev.Key == key.KeyNone {
		return &event.UnknownEvent{}
	}

	char := ""
	if ev.Key == key.KeyRune && ev.Rune != 0 {
		char = string(ev.Rune)
	}
	return event.NewKeyDown(ev.Key, ev.Mod, char)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizePaste converts pasted text to NFC with Unix line endings.
func normalizePaste(text string) string {
	return norm.NFC.String(newlines.Replace(text))
}
