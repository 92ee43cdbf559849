package trace

import (
	"bufio"
	"io"
	"strings"

	"github.com/dshills/scribe/internal/event"
)

// maxLineSize bounds a single record; large pastes make long lines.
const maxLineSize = 4 << 20

// Replayer yields the events of a recording one per Poll, then a single
// QuitEvent so a replayed session terminates.
type Replayer struct {
	events []event.Event
	pos    int
	quit   bool
}

// Load reads a whole recording. Blank lines are skipped.
func Load(r io.Reader) (*Replayer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []event.Event
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		ev, err := Decode(text)
		if err != nil {
			return nil, &DecodeError{Line: line, Err: err}
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &Replayer{events: events}, nil
}

// Poll returns the next recorded event. After the last one it returns a
// QuitEvent once and nil from then on.
func (r *Replayer) Poll() []event.Event {
	if r.pos < len(r.events) {
		ev := r.events[r.pos]
		r.pos++
		return []event.Event{ev}
	}
	if !r.quit {
		r.quit = true
		return []event.Event{&event.QuitEvent{}}
	}
	return nil
}

// Len returns the number of recorded events.
func (r *Replayer) Len() int {
	return len(r.events)
}

// Remaining returns the number of recorded events not yet polled.
func (r *Replayer) Remaining() int {
	return len(r.events) - r.pos
}
