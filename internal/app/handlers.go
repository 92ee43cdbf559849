package app

import (
	"fmt"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/match"
	"github.com/dshills/scribe/internal/input/key"
)

// textModifiers accepts modifier sets that still produce text.
var textModifiers = match.Func("text modifiers", func(v any) bool {
	m, ok := v.(key.Modifier)
	return ok && !m.IsCommand()
})

// installHandlers registers the default handlers. Quit keys are bound
// separately by bindQuitKeys.
func (e *Editor) installHandlers() {
	d := e.dispatcher

	d.Add(&event.QuitEvent{}, e.onQuit)

	d.Add(&event.KeyDownEvent{
		Char:      event.Match[string](match.Char()),
		Modifiers: event.Match[key.Modifier](textModifiers),
	}, func(ev event.Event) error {
		ch, _ := ev.(*event.KeyDownEvent).Char.Get()
		e.state.CharTyped(ch)
		return nil
	})

	d.Add(&event.KeyDownEvent{Key: event.Set(key.KeyEnter)}, func(event.Event) error {
		e.state.Newline()
		return nil
	})

	d.Add(&event.KeyDownEvent{
		Key:       event.Set(key.KeyTab),
		Modifiers: event.Set(key.ModNone),
	}, func(event.Event) error {
		e.state.CharTyped("\t")
		return nil
	})

	d.Add(&event.KeyDownEvent{Key: event.Set(key.KeyBackspace)}, func(event.Event) error {
		e.state.Backspace()
		return nil
	})

	d.Add(&event.ResizeEvent{}, func(ev event.Event) error {
		r := ev.(*event.ResizeEvent)
		w, _ := r.Width.Get()
		h, _ := r.Height.Get()
		e.state.Resize(w, h)
		return nil
	})

	d.Add(&event.PasteEvent{}, func(ev event.Event) error {
		text, _ := ev.(*event.PasteEvent).Text.Get()
		e.state.Insert(text)
		return nil
	})
}

func (e *Editor) onQuit(event.Event) error {
	e.Quit()
	return nil
}

// bindQuitKeys replaces the quit key registrations. On a parse error the
// previous bindings stay in place.
func (e *Editor) bindQuitKeys(specs []string) error {
	chords := make([]key.Chord, 0, len(specs))
	for _, spec := range specs {
		c, err := key.Parse(spec)
		if err != nil {
			return fmt.Errorf("quit key %q: %w", spec, err)
		}
		chords = append(chords, c)
	}

	for _, r := range e.quitRegs {
		e.dispatcher.RemoveRegistration(r)
	}
	e.quitRegs = e.quitRegs[:0]

	for _, c := range chords {
		e.quitRegs = append(e.quitRegs, e.dispatcher.Add(event.KeyDownFromChord(c), e.onQuit))
	}
	e.logger.Debug().Strs("keys", specs).Msg("quit keys bound")
	return nil
}
