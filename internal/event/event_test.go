package event

import (
	"testing"

	"github.com/dshills/scribe/internal/event/match"
	"github.com/dshills/scribe/internal/input/key"
)

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"nil", nil, false},
		{"typed nil quit", (*QuitEvent)(nil), false},
		{"typed nil key down", (*KeyDownEvent)(nil), false},
		{"unknown", &UnknownEvent{}, true},
		{"quit", &QuitEvent{}, true},
		{"muted quit", &QuitEvent{Meta{Mute: true}}, true},
		{"full key down", NewKeyDown(key.KeyRune, key.ModNone, "a"), true},
		{"empty char is a value", NewKeyDown(key.KeyEnter, key.ModNone, ""), true},
		{"empty key down", &KeyDownEvent{}, false},
		{"partial key down", &KeyDownEvent{Key: Set(key.KeyRune), Modifiers: Set(key.ModNone)}, false},
		{"predicate field", &KeyDownEvent{
			Key:       Set(key.KeyRune),
			Modifiers: Set(key.ModNone),
			Char:      Match[string](match.Char()),
		}, false},
		{"resize", NewResize(80, 24), true},
		{"partial resize", &ResizeEvent{Width: Set(80)}, false},
		{"paste", NewPaste("hi"), true},
		{"empty paste", &PasteEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.ev); got != tt.want {
				t.Errorf("IsComplete(%s) = %v, want %v", Describe(tt.ev), got, tt.want)
			}
		})
	}
}

func TestDescribeTypedNil(t *testing.T) {
	if got := Describe((*ResizeEvent)(nil)); got != "<nil>" {
		t.Errorf("Describe() = %q, want %q", got, "<nil>")
	}
}

func TestIsCompleteRecomputed(t *testing.T) {
	ev := &KeyDownEvent{Key: Set(key.KeyRune), Modifiers: Set(key.ModNone)}
	if IsComplete(ev) {
		t.Fatal("event without char should be incomplete")
	}

	ev.Char = Set("z")
	if !IsComplete(ev) {
		t.Error("event should be complete after setting char")
	}

	ev.Key = Unset[key.Key]()
	if IsComplete(ev) {
		t.Error("event should be incomplete after unsetting key")
	}
}

func TestTraits(t *testing.T) {
	ev := NewKeyDown(key.KeyRune, key.ModCtrl, "q")
	traits := ev.Traits()

	names := traits.Names()
	want := []string{FieldKey, FieldModifiers, FieldChar}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	f, ok := traits.Get(FieldModifiers)
	if !ok {
		t.Fatal("Get(modifiers) not found")
	}
	if f.Value() != key.ModCtrl {
		t.Errorf("modifiers = %v, want %v", f.Value(), key.ModCtrl)
	}

	if _, ok := traits.Get("mute"); ok {
		t.Error("mute must not be a trait")
	}
	if len((&QuitEvent{Meta{Mute: true}}).Traits()) != 0 {
		t.Error("QuitEvent should have no traits")
	}
}

func TestMatches(t *testing.T) {
	ev := NewKeyDown(key.KeyRune, key.ModNone, "x")

	tests := []struct {
		name    string
		pattern Event
		want    bool
	}{
		{"all wildcards", &KeyDownEvent{}, true},
		{"literal key", &KeyDownEvent{Key: Set(key.KeyRune)}, true},
		{"wrong literal key", &KeyDownEvent{Key: Set(key.KeyEnter)}, false},
		{"char matcher", &KeyDownEvent{Char: Match[string](match.Char())}, true},
		{"failing matcher", &KeyDownEvent{Char: Match[string](match.OneOf("y"))}, false},
		{"mixed", &KeyDownEvent{Key: Set(key.KeyRune), Char: Match[string](match.Char())}, true},
		{"mixed with wrong modifier", &KeyDownEvent{
			Modifiers: Set(key.ModCtrl),
			Char:      Match[string](match.Char()),
		}, false},
		{"other kind", &QuitEvent{}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.pattern, ev); got != tt.want {
				t.Errorf("Matches(%s, %s) = %v, want %v", Describe(tt.pattern), Describe(ev), got, tt.want)
			}
		})
	}
}

func TestMatchesIgnoresMute(t *testing.T) {
	pattern := &QuitEvent{Meta{Mute: true}}
	if !Matches(pattern, &QuitEvent{}) {
		t.Error("Matches should ignore the mute flag")
	}
}

func TestMatchesNoFields(t *testing.T) {
	if !Matches(&QuitEvent{}, &QuitEvent{}) {
		t.Error("events without fields should match vacuously")
	}
	if Matches(&UnknownEvent{}, &QuitEvent{}) {
		t.Error("events of different kinds must not match")
	}
}

func TestKeyDownFromChord(t *testing.T) {
	tests := []struct {
		spec  string
		ev    *KeyDownEvent
		match bool
	}{
		{"Ctrl+Q", NewKeyDown(key.KeyRune, key.ModCtrl, "q"), true},
		{"Ctrl+Q", NewKeyDown(key.KeyRune, key.ModNone, "q"), false},
		{"Enter", NewKeyDown(key.KeyEnter, key.ModNone, ""), true},
		{"Enter", NewKeyDown(key.KeyEnter, key.ModShift, ""), false},
		{"a", NewKeyDown(key.KeyRune, key.ModNone, "a"), true},
		{"a", NewKeyDown(key.KeyRune, key.ModNone, "b"), false},
	}

	for _, tt := range tests {
		pattern := KeyDownFromChord(key.MustParse(tt.spec))
		if got := Matches(pattern, tt.ev); got != tt.match {
			t.Errorf("Matches(%q, %s) = %v, want %v", tt.spec, Describe(tt.ev), got, tt.match)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{nil, "<nil>"},
		{&QuitEvent{}, "quit{}"},
		{&QuitEvent{Meta{Mute: true}}, "quit{muted}"},
		{NewResize(80, 24), "resize{width=80 height=24}"},
		{&PasteEvent{}, "paste{text=*}"},
	}

	for _, tt := range tests {
		if got := Describe(tt.ev); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}

func TestEmpty(t *testing.T) {
	for _, k := range Kinds {
		ev, ok := Empty(k)
		if !ok {
			t.Errorf("Empty(%q) not found", k)
			continue
		}
		if ev.Kind() != k {
			t.Errorf("Empty(%q).Kind() = %q", k, ev.Kind())
		}
	}
	if _, ok := Empty("bogus"); ok {
		t.Error("Empty(bogus) should fail")
	}
}
