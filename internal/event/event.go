package event

import (
	"reflect"
	"strings"

	"github.com/dshills/scribe/internal/input/key"
)

// Event is a typed, named set of optional fields plus a mute flag.
type Event interface {
	// Kind returns the variant tag.
	Kind() Kind

	// Traits returns the fields in declaration order, excluding mute.
	Traits() Traits

	// Muted reports whether the event is suppressed.
	Muted() bool
}

// Meta carries dispatch metadata shared by every event. It is embedded in
// each variant and is never part of the field set.
type Meta struct {
	// Mute suppresses the event. On a payload it blocks all dispatch; on a
	// pattern it disables the registration.
	Mute bool
}

// Muted reports whether the event is suppressed.
func (m Meta) Muted() bool {
	return m.Mute
}

// IsNil reports whether e is nil or a nil pointer to a variant.
func IsNil(e Event) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// IsComplete reports whether every field of e holds a literal value.
// Events with no fields are always complete. A nil event is not.
func IsComplete(e Event) bool {
	if IsNil(e) {
		return false
	}
	for _, tr := range e.Traits() {
		if tr.Field.Mode() != Literal {
			return false
		}
	}
	return true
}

// Matches reports whether the payload ev satisfies pattern, ignoring mute
// flags. The kinds must be equal and every pattern field must match the
// payload field of the same name. Evaluation stops at the first failure.
func Matches(pattern, ev Event) bool {
	if pattern == nil || ev == nil || pattern.Kind() != ev.Kind() {
		return false
	}
	actual := ev.Traits()
	for _, tr := range pattern.Traits() {
		if tr.Field.Mode() == Wildcard {
			continue
		}
		got, ok := actual.Get(tr.Name)
		if !ok || !tr.Field.Matches(got) {
			return false
		}
	}
	return true
}

// Describe formats an event as "kind{name=value ...}" for logs.
func Describe(e Event) string {
	if IsNil(e) {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.Kind()))
	b.WriteByte('{')
	for i, tr := range e.Traits() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tr.Name)
		b.WriteByte('=')
		b.WriteString(tr.Field.String())
	}
	if e.Muted() {
		if len(e.Traits()) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("muted")
	}
	b.WriteByte('}')
	return b.String()
}

// UnknownEvent stands in for notifications that have no typed event.
// It has no fields and is therefore always complete.
type UnknownEvent struct {
	Meta
}

// Kind implements Event.
func (*UnknownEvent) Kind() Kind { return KindUnknown }

// Traits implements Event.
func (*UnknownEvent) Traits() Traits { return nil }

// QuitEvent is a request to close the application.
type QuitEvent struct {
	Meta
}

// Kind implements Event.
func (*QuitEvent) Kind() Kind { return KindQuit }

// Traits implements Event.
func (*QuitEvent) Traits() Traits { return nil }

// KeyDownEvent is a key press.
type KeyDownEvent struct {
	Meta

	// Key is the key code. Character keys use key.KeyRune.
	Key Slot[key.Key]

	// Modifiers is the set of held modifier keys.
	Modifiers Slot[key.Modifier]

	// Char is the text the press produced; "" for keys that produce none.
	Char Slot[string]
}

// Field names of KeyDownEvent.
const (
	FieldKey       = "key"
	FieldModifiers = "modifiers"
	FieldChar      = "char"
)

// NewKeyDown returns a complete key press.
func NewKeyDown(k key.Key, mods key.Modifier, char string) *KeyDownEvent {
	return &KeyDownEvent{
		Key:       Set(k),
		Modifiers: Set(mods),
		Char:      Set(char),
	}
}

// KeyDownFromChord returns a pattern for a parsed key specification.
// Character chords match on the character, special keys on the key code.
func KeyDownFromChord(c key.Chord) *KeyDownEvent {
	p := &KeyDownEvent{Modifiers: Set(c.Modifiers)}
	if c.Key == key.KeyRune {
		p.Key = Set(key.KeyRune)
		p.Char = Set(c.Text())
	} else {
		p.Key = Set(c.Key)
	}
	return p
}

// Kind implements Event.
func (*KeyDownEvent) Kind() Kind { return KindKeyDown }

// Traits implements Event.
func (e *KeyDownEvent) Traits() Traits {
	return Traits{
		{Name: FieldKey, Field: e.Key.Field()},
		{Name: FieldModifiers, Field: e.Modifiers.Field()},
		{Name: FieldChar, Field: e.Char.Field()},
	}
}

// ResizeEvent reports a new display size in cells.
type ResizeEvent struct {
	Meta

	Width  Slot[int]
	Height Slot[int]
}

// Field names of ResizeEvent.
const (
	FieldWidth  = "width"
	FieldHeight = "height"
)

// NewResize returns a complete resize event.
func NewResize(width, height int) *ResizeEvent {
	return &ResizeEvent{Width: Set(width), Height: Set(height)}
}

// Kind implements Event.
func (*ResizeEvent) Kind() Kind { return KindResize }

// Traits implements Event.
func (e *ResizeEvent) Traits() Traits {
	return Traits{
		{Name: FieldWidth, Field: e.Width.Field()},
		{Name: FieldHeight, Field: e.Height.Field()},
	}
}

// PasteEvent carries a block of pasted text.
type PasteEvent struct {
	Meta

	Text Slot[string]
}

// FieldText is the field name of PasteEvent.Text.
const FieldText = "text"

// NewPaste returns a complete paste event.
func NewPaste(text string) *PasteEvent {
	return &PasteEvent{Text: Set(text)}
}

// Kind implements Event.
func (*PasteEvent) Kind() Kind { return KindPaste }

// Traits implements Event.
func (e *PasteEvent) Traits() Traits {
	return Traits{{Name: FieldText, Field: e.Text.Field()}}
}

// Kinds lists every event kind.
var Kinds = []Kind{KindUnknown, KindQuit, KindKeyDown, KindResize, KindPaste}

// Empty returns a new event of the given kind with every field unset.
// The second result is false for an unrecognized kind.
func Empty(kind Kind) (Event, bool) {
	switch kind {
	case KindUnknown:
		return &UnknownEvent{}, true
	case KindQuit:
		return &QuitEvent{}, true
	case KindKeyDown:
		return &KeyDownEvent{}, true
	case KindResize:
		return &ResizeEvent{}, true
	case KindPaste:
		return &PasteEvent{}, true
	default:
		return nil, false
	}
}
