// Package trace records dispatched events as JSON lines and replays a
// recording as an event source.
//
// Each line holds one complete event:
//
//	{"seq":1,"session":"5f0c2a9e-3b1d-4c3e-9a61-0d7f2b8c4e11","at":"2025-01-02T15:04:05Z","kind":"key.down",
//	 "fields":{"key":"Rune","modifiers":"Ctrl","char":"q"}}
//
// Key codes and modifiers are stored by name so recordings stay readable
// and survive renumbering.
package trace
