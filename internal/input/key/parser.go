package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Chord is a parsed key specification: a key, the character for KeyRune,
// and the modifiers that must be held.
type Chord struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Text returns the character produced by the chord, or "" for special keys.
func (c Chord) Text() string {
	if c.Key != KeyRune || c.Rune == 0 {
		return ""
	}
	return string(c.Rune)
}

// String returns the chord in Vim notation, e.g. "<C-q>", "<CR>", "a".
func (c Chord) String() string {
	if c.Key == KeyRune && !c.Modifiers.IsCommand() {
		if c.Rune == ' ' {
			return "<Space>"
		}
		return string(c.Rune)
	}

	name := c.Key.String()
	switch c.Key {
	case KeyRune:
		name = strings.ToLower(string(c.Rune))
	case KeyEnter:
		name = "CR"
	case KeyEscape:
		name = "Esc"
	case KeyBackspace:
		name = "BS"
	}

	mods := c.Modifiers
	if c.Key == KeyRune {
		mods = mods.Without(ModShift)
	}
	if short := mods.ShortString(); short != "" {
		return "<" + short + "-" + name + ">"
	}
	return "<" + name + ">"
}

// Parse parses a key specification string.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"))
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseParts(strings.Split(spec, "+"))
	}
	return parseKey(spec, ModNone)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// parseParts treats every part but the last as a modifier name.
func parseParts(parts []string) (Chord, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod, ok := ModifierFromName(p)
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods)
}

func parseKey(part string, mods Modifier) (Chord, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Chord{}, ErrInvalidSpec
	}

	runes := []rune(part)
	if len(runes) == 1 {
		r := runes[0]
		switch {
		case mods.IsCommand():
			// Ctrl+S and Ctrl+s are the same chord.
			r = unicode.ToLower(r)
		case unicode.IsUpper(r):
			mods = mods.With(ModShift)
		}
		return Chord{Key: KeyRune, Rune: r, Modifiers: mods}, nil
	}

	switch strings.ToLower(part) {
	case "space":
		return Chord{Key: KeyRune, Rune: ' ', Modifiers: mods}, nil
	case "lt":
		return Chord{Key: KeyRune, Rune: '<', Modifiers: mods}, nil
	case "gt":
		return Chord{Key: KeyRune, Rune: '>', Modifiers: mods}, nil
	case "bar":
		return Chord{Key: KeyRune, Rune: '|', Modifiers: mods}, nil
	}

	if k, ok := FromName(part); ok && k.IsSpecial() {
		return Chord{Key: k, Modifiers: mods}, nil
	}
	return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, part)
}
