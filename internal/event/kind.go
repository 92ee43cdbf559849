package event

// Kind is the variant tag of an event.
// Only a payload and a pattern of the same kind are ever compared.
type Kind string

const (
	// KindUnknown is the catch-all for notifications with no typed event.
	KindUnknown Kind = "unknown"

	// KindQuit is a request to close the application.
	KindQuit Kind = "quit"

	// KindKeyDown is a key press.
	KindKeyDown Kind = "key.down"

	// KindResize is a change of the display size.
	KindResize Kind = "resize"

	// KindPaste is a block of pasted text.
	KindPaste Kind = "paste"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}
