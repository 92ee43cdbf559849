package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/scribe/internal/input/key"
)

// eventQueueSize bounds the notifications buffered between frames.
const eventQueueSize = 256

// Terminal implements Backend using tcell.
// A reader goroutine converts tcell events and queues them for PollEvents.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	events chan Event
	quit   chan struct{}
	done   sync.WaitGroup
	once   sync.Once

	// Bracketed paste state, owned by the reader goroutine.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminal(screen), nil
}

func newTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen: screen,
		events: make(chan Event, eventQueueSize),
		quit:   make(chan struct{}),
	}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()

	t.done.Add(1)
	go t.readLoop()
	return nil
}

func (t *Terminal) readLoop() {
	defer t.done.Done()

	for {
		tev := t.screen.PollEvent()
		if tev == nil {
			// Screen finalized
			return
		}
		ev, ok := t.convert(tev)
		if !ok {
			continue
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

func (t *Terminal) Shutdown() {
	t.once.Do(func() {
		close(t.quit)
		t.mu.Lock()
		t.screen.Fini()
		t.mu.Unlock()
		t.done.Wait()
	})
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) PollEvents() []Event {
	var out []Event
	for {
		select {
		case ev := <-t.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// PostEvent injects ev into the tcell queue so it is delivered in order
// with real input.
func (t *Terminal) PostEvent(ev Event) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(ev)) // best-effort; queue may be full
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetTitle(title)
}

func (t *Terminal) Clear(bg colorful.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetStyle(tcell.StyleDefault.Background(convertColor(bg)))
	t.screen.Clear()
}

func (t *Terminal) DrawText(x, y int, text string, fg, bg colorful.Color) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	style := tcell.StyleDefault.Foreground(convertColor(fg)).Background(convertColor(bg))
	width, _ := t.screen.Size()

	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < width {
		w := gr.Width()
		if w == 0 {
			continue
		}
		runes := gr.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// convert translates a tcell event. The second result is false while a
// bracketed paste is being collected.
func (t *Terminal) convert(tev tcell.Event) (Event, bool) {
	switch e := tev.(type) {
	case *tcell.EventKey:
		ev := convertKey(e)
		if t.pasting {
			t.paste.WriteString(pasteText(ev))
			return Event{}, false
		}
		return ev, true

	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		return Event{Type: EventPaste, Text: t.paste.String()}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}, true

	case *tcell.EventInterrupt:
		if ev, ok := e.Data().(Event); ok {
			return ev, true
		}
		return Event{Type: EventNone}, true

	default:
		return Event{Type: EventNone}, true
	}
}

// namedKeys maps tcell keys that have a platform-neutral name.
// tcell aliases Ctrl+H, Ctrl+I and Ctrl+M to Backspace, Tab and Enter.
var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// convertKey converts a tcell key event. Control letters become the
// lower-case letter with ModCtrl.
func convertKey(e *tcell.EventKey) Event {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	if named, ok := namedKeys[k]; ok {
		return Event{Type: EventKey, Key: named, Mod: mods}
	}

	switch {
	case k == tcell.KeyRune:
		return Event{Type: EventKey, Key: key.KeyRune, Rune: e.Rune(), Mod: mods}
	case k == tcell.KeyCtrlSpace:
		return Event{Type: EventKey, Key: key.KeyRune, Rune: ' ', Mod: mods.With(key.ModCtrl)}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := 'a' + rune(k-tcell.KeyCtrlA)
		return Event{Type: EventKey, Key: key.KeyRune, Rune: r, Mod: mods.With(key.ModCtrl)}
	default:
		return Event{Type: EventKey, Key: key.KeyNone, Mod: mods}
	}
}

// pasteText returns the text a key contributes to a bracketed paste.
func pasteText(ev Event) string {
	switch ev.Key {
	case key.KeyRune:
		return string(ev.Rune)
	case key.KeyEnter:
		return "\n"
	case key.KeyTab:
		return "\t"
	default:
		return ""
	}
}

// convertMod converts a tcell modifier mask.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertColor converts a colour to a true-colour tcell colour.
func convertColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
