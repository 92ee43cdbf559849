package key

import (
	"fmt"
	"strings"
)

// Modifier represents keyboard modifier keys as a bitmask.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// commandMods are the modifiers that turn a character key into a command.
const commandMods = ModCtrl | ModAlt | ModMeta

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool { return m.Has(ModMeta) }

// IsCommand returns true if Ctrl, Alt or Meta is held.
// Shift alone is not a command modifier since it only changes the character.
func (m Modifier) IsCommand() bool {
	return m&commandMods != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	return m.join("+", "Ctrl", "Alt", "Shift", "Meta")
}

// ShortString returns a compact representation like "C-A-S-M".
func (m Modifier) ShortString() string {
	return m.join("-", "C", "A", "S", "M")
}

func (m Modifier) join(sep, ctrl, alt, shift, meta string) string {
	var parts []string
	if m.HasCtrl() {
		parts = append(parts, ctrl)
	}
	if m.HasAlt() {
		parts = append(parts, alt)
	}
	if m.HasShift() {
		parts = append(parts, shift)
	}
	if m.HasMeta() {
		parts = append(parts, meta)
	}
	return strings.Join(parts, sep)
}

// modifierNames maps modifier names (lowercase) to Modifier values.
var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
	"d":       ModMeta, // Vim uses D for command/meta
}

// ModifierFromName returns the Modifier for a name (case-insensitive).
func ModifierFromName(name string) (Modifier, bool) {
	m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ParseModifiers parses a modifier list like "Ctrl+Alt" or "C-A".
// Unknown names are ignored. An empty string yields ModNone.
func ParseModifiers(s string) Modifier {
	var result Modifier
	for _, part := range splitModifiers(s) {
		if mod, ok := ModifierFromName(part); ok {
			result = result.With(mod)
		}
	}
	return result
}

// ParseModifierList is ParseModifiers that rejects unknown names with
// ErrInvalidSpec.
func ParseModifierList(s string) (Modifier, error) {
	var result Modifier
	for _, part := range splitModifiers(s) {
		mod, ok := ModifierFromName(part)
		if !ok {
			return ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, part)
		}
		result = result.With(mod)
	}
	return result, nil
}

func splitModifiers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	sep := "+"
	if !strings.Contains(s, "+") {
		sep = "-"
	}
	return strings.Split(s, sep)
}
