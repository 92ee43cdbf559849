package key

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key.
// Character keys use KeyRune; the character travels with the event.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyRune is used for character keys (letters, digits, punctuation, space).
	KeyRune
)

// keyNames holds the canonical name of every key, indexed by Key.
var keyNames = [...]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyRune:      "Rune",
}

// keyAliases maps additional lowercase spellings to keys.
var keyAliases = map[string]Key{
	"esc":    KeyEscape,
	"return": KeyEnter,
	"cr":     KeyEnter,
	"bs":     KeyBackspace,
	"del":    KeyDelete,
	"ins":    KeyInsert,
	"pgup":   KeyPageUp,
	"pgdn":   KeyPageDown,
}

// String returns the canonical name for the key.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune && int(k) < len(keyNames)
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// FromName returns the Key for a name (case-insensitive).
// The second result is false if the name is not recognized.
func FromName(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeyNone, false
	}
	for k, n := range keyNames {
		if strings.ToLower(n) == name {
			return Key(k), true
		}
	}
	k, ok := keyAliases[name]
	return k, ok
}
