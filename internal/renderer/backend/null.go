package backend

import (
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// NullBackend is an in-memory backend for headless runs and tests.
// Drawn text is kept per cell so it can be read back with Row.
type NullBackend struct {
	mu sync.Mutex

	width, height int
	cells         [][]string
	title         string
	background    colorful.Color
	shows         int
	initialized   bool

	events []Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{width: width, height: height}
	b.allocate()
	return b
}

func (b *NullBackend) allocate() {
	b.cells = make([][]string, b.height)
	for y := range b.cells {
		b.cells[y] = make([]string, b.width)
		for x := range b.cells[y] {
			b.cells[y][x] = " "
		}
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initialized = true
	return nil
}

func (b *NullBackend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initialized = false
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *NullBackend) PollEvents() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.events
	b.events = nil
	return out
}

func (b *NullBackend) PostEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, ev)
}

func (b *NullBackend) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.title = title
}

func (b *NullBackend) Clear(bg colorful.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.background = bg
	b.allocate()
}

func (b *NullBackend) DrawText(x, y int, text string, _, _ colorful.Color) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return x
	}
	gr := uniseg.NewGraphemes(text)
	for gr.Next() && x < b.width {
		w := gr.Width()
		if w == 0 {
			continue
		}
		if x >= 0 {
			b.cells[y][x] = gr.Str()
			// Cells covered by a wide grapheme hold nothing.
			for i := x + 1; i < x+w && i < b.width; i++ {
				b.cells[y][i] = ""
			}
		}
		x += w
	}
	return x
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.shows++
}

// Resize simulates a display resize and queues the notification.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width = width
	b.height = height
	b.allocate()
	b.events = append(b.events, Event{Type: EventResize, Width: width, Height: height})
}

// Row returns the text drawn on row y with trailing blanks removed.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y] {
		sb.WriteString(c)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Title returns the last caption set.
func (b *NullBackend) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.title
}

// Background returns the last clear colour.
func (b *NullBackend) Background() colorful.Color {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.background
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows
}

// Initialized reports whether Init was called without a later Shutdown.
func (b *NullBackend) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.initialized
}
