// Package event defines the typed domain events produced from low-level
// input notifications and the pattern model used to route them.
//
// # Payloads and Patterns
//
// The same event types play two roles:
//
//   - A payload describes something that happened. Every field holds a
//     concrete value. Only payloads may be handed to a dispatcher.
//   - A pattern describes events a handler wants. Any field may be left
//     unset, meaning "don't care", or hold a match.Matcher, meaning
//     "any value satisfying this predicate".
//
//	// Fires for every key press that produced exactly one character.
//	pattern := &event.KeyDownEvent{Char: event.Match[string](match.Char())}
//
//	// A complete payload.
//	ev := event.NewKeyDown(key.KeyRune, key.ModNone, "x")
//
// # Fields
//
// Each event kind declares a fixed, ordered list of fields (its traits).
// A field is a Slot[T] on the struct and projects to an untyped Field for
// matching. The mute flag lives in Meta and is never a field.
//
// Events are pointer types; a pattern's identity is its pointer.
package event
