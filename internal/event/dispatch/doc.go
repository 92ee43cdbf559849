// Package dispatch routes complete events to the handlers whose patterns
// they satisfy.
//
// A Dispatcher holds an ordered list of registrations, each a pattern event
// and a callback. Handle walks the list in insertion order and invokes every
// callback whose pattern matches:
//
//	d := dispatch.New()
//	d.Add(&event.QuitEvent{}, func(event.Event) error {
//	    quit = true
//	    return nil
//	})
//	d.Add(&event.KeyDownEvent{Char: event.Match[string](match.Char())}, typeChar)
//
//	err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModNone, "x"))
//
// # Suppression
//
// A muted payload reaches no handler. A muted registration never fires.
// Mute and Unmute toggle a registration after it was added.
//
// # Contract
//
// Handle panics with ErrIncompleteEvent when given an event that still has
// unset or predicate fields; only patterns may be partial.
//
// Callbacks run synchronously on the calling goroutine. Registrations added
// or removed from inside a callback take effect on the next Handle call;
// a registration muted from inside a callback is skipped immediately.
// The first callback error stops dispatch and is returned as a
// *HandlerError.
package dispatch
