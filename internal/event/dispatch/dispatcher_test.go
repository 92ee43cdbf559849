package dispatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/match"
	"github.com/dshills/scribe/internal/input/key"
)

// recorder collects callback invocations in order.
type recorder struct {
	calls []string
	evs   []event.Event
}

func (r *recorder) callback(name string) Callback {
	return func(ev event.Event) error {
		r.calls = append(r.calls, name)
		r.evs = append(r.evs, ev)
		return nil
	}
}

func (r *recorder) joined() string {
	return strings.Join(r.calls, ",")
}

func charPattern() *event.KeyDownEvent {
	return &event.KeyDownEvent{Char: event.Match[string](match.Char())}
}

func TestHandleScenario(t *testing.T) {
	d := New()
	rec := &recorder{}

	d.Add(&event.QuitEvent{}, rec.callback("quit"))

	if err := d.Handle(&event.QuitEvent{}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "quit" {
		t.Fatalf("calls = %q, want %q", rec.joined(), "quit")
	}

	if err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModNone, "a")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "quit" {
		t.Fatalf("unmatched key press invoked a callback: %q", rec.joined())
	}

	d.Add(charPattern(), rec.callback("char"))

	x := event.NewKeyDown(key.KeyRune, key.ModNone, "x")
	if err := d.Handle(x); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "quit,char" {
		t.Fatalf("calls = %q, want %q", rec.joined(), "quit,char")
	}
	if rec.evs[1] != x {
		t.Error("callback did not receive the dispatched event")
	}

	if err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModNone, "")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "quit,char" {
		t.Errorf("empty char should not satisfy the char matcher: %q", rec.joined())
	}
}

func TestHandleDifferentKindNeverFires(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(&event.ResizeEvent{}, rec.callback("resize"))
	d.Add(&event.PasteEvent{}, rec.callback("paste"))
	d.Add(&event.UnknownEvent{}, rec.callback("unknown"))

	events := []event.Event{
		&event.QuitEvent{},
		event.NewKeyDown(key.KeyRune, key.ModNone, "a"),
	}
	for _, ev := range events {
		if err := d.Handle(ev); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}
}

func TestHandleKindWildcardFiresOnce(t *testing.T) {
	events := []event.Event{
		event.NewKeyDown(key.KeyRune, key.ModNone, "a"),
		event.NewKeyDown(key.KeyEnter, key.ModShift, ""),
		event.NewKeyDown(key.KeyF1, key.ModCtrl|key.ModAlt, ""),
	}

	for _, ev := range events {
		d := New()
		rec := &recorder{}
		d.Add(&event.KeyDownEvent{}, rec.callback("any"))

		if err := d.Handle(ev); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(rec.calls) != 1 {
			t.Errorf("Handle(%s) calls = %d, want 1", event.Describe(ev), len(rec.calls))
		}
	}
}

func TestHandleLiteralMismatch(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(&event.KeyDownEvent{
		Key:  event.Set(key.KeyEnter),
		Char: event.Match[string](match.Func("any", func(any) bool { return true })),
	}, rec.callback("enter"))

	events := []event.Event{
		event.NewKeyDown(key.KeyTab, key.ModNone, "x"),
		event.NewKeyDown(key.KeyRune, key.ModNone, "x"),
		event.NewKeyDown(key.KeyEscape, key.ModCtrl, ""),
	}
	for _, ev := range events {
		if err := d.Handle(ev); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v, want none", rec.calls)
	}

	if err := d.Handle(event.NewKeyDown(key.KeyEnter, key.ModNone, "\n")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v, want one", rec.calls)
	}
}

func TestHandleShortCircuits(t *testing.T) {
	d := New()
	evaluated := false
	probe := match.Func("probe", func(any) bool {
		evaluated = true
		return true
	})
	d.Add(&event.KeyDownEvent{
		Key:  event.Set(key.KeyEnter),
		Char: event.Match[string](probe),
	}, func(event.Event) error { return nil })

	if err := d.Handle(event.NewKeyDown(key.KeyTab, key.ModNone, "")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if evaluated {
		t.Error("matcher evaluated after an earlier field failed")
	}
}

func TestHandleMutedEvent(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(&event.QuitEvent{}, rec.callback("quit"))
	d.Add(&event.KeyDownEvent{}, rec.callback("key"))

	muted := event.NewKeyDown(key.KeyRune, key.ModNone, "a")
	muted.Mute = true

	if err := d.Handle(&event.QuitEvent{Meta: event.Meta{Mute: true}}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if err := d.Handle(muted); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("muted events invoked %v", rec.calls)
	}
	if got := d.Stats().Suppressed; got != 2 {
		t.Errorf("Stats().Suppressed = %d, want 2", got)
	}
}

func TestHandleMutedPattern(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(&event.QuitEvent{Meta: event.Meta{Mute: true}}, rec.callback("muted"))
	d.Add(&event.QuitEvent{}, rec.callback("live"))

	if err := d.Handle(&event.QuitEvent{}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "live" {
		t.Errorf("calls = %q, want %q", rec.joined(), "live")
	}
}

func TestHandleRegistrationOrder(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(charPattern(), rec.callback("r1"))
	d.Add(&event.KeyDownEvent{}, rec.callback("r2"))
	d.Add(&event.KeyDownEvent{Key: event.Set(key.KeyRune)}, rec.callback("r3"))

	if err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModNone, "z")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != "r1,r2,r3" {
		t.Errorf("calls = %q, want %q", rec.joined(), "r1,r2,r3")
	}
}

func TestHandleIdempotent(t *testing.T) {
	d := New()
	rec := &recorder{}
	d.Add(charPattern(), rec.callback("char"))
	d.Add(&event.KeyDownEvent{Modifiers: event.Set(key.ModCtrl)}, rec.callback("ctrl"))
	d.Add(&event.KeyDownEvent{}, rec.callback("any"))

	if err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModCtrl, "q")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	first := rec.joined()
	rec.calls = nil

	if err := d.Handle(event.NewKeyDown(key.KeyRune, key.ModCtrl, "q")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if rec.joined() != first {
		t.Errorf("second dispatch = %q, first = %q", rec.joined(), first)
	}
}

func TestHandleIncompletePanics(t *testing.T) {
	tests := []struct {
		name string
		ev   event.Event
	}{
		{"nil", nil},
		{"typed nil", (*event.QuitEvent)(nil)},
		{"unset fields", &event.KeyDownEvent{Key: event.Set(key.KeyRune)}},
		{"predicate field", &event.KeyDownEvent{
			Key:       event.Set(key.KeyRune),
			Modifiers: event.Set(key.ModNone),
			Char:      event.Match[string](match.Char()),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			called := false
			d.Add(&event.KeyDownEvent{}, func(event.Event) error {
				called = true
				return nil
			})

			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("Handle should panic on an incomplete event")
				}
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrIncompleteEvent) {
					t.Errorf("panic value = %v, want ErrIncompleteEvent", r)
				}
				if called {
					t.Error("callback ran for an incomplete event")
				}
			}()
			_ = d.Handle(tt.ev)
		})
	}
}

func TestHandleCallbackError(t *testing.T) {
	d := New()
	rec := &recorder{}
	boom := errors.New("boom")

	d.Add(&event.QuitEvent{}, rec.callback("before"))
	failing := d.Add(&event.QuitEvent{}, func(event.Event) error { return boom })
	d.Add(&event.QuitEvent{}, rec.callback("after"))

	err := d.Handle(&event.QuitEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("Handle() error = %v, want %v", err, boom)
	}

	var herr *HandlerError
	if !errors.As(err, &herr) {
		t.Fatalf("Handle() error type = %T, want *HandlerError", err)
	}
	if herr.RegistrationID != failing.ID() {
		t.Errorf("RegistrationID = %v, want %v", herr.RegistrationID, failing.ID())
	}
	if herr.Kind != event.KindQuit {
		t.Errorf("Kind = %v, want %v", herr.Kind, event.KindQuit)
	}
	if rec.joined() != "before" {
		t.Errorf("calls = %q, want %q", rec.joined(), "before")
	}
	if got := d.Stats().Failed; got != 1 {
		t.Errorf("Stats().Failed = %d, want 1", got)
	}
}

func TestHandleCallbackPanicPropagates(t *testing.T) {
	d := New()
	d.Add(&event.QuitEvent{}, func(event.Event) error { panic("handler bug") })

	defer func() {
		if r := recover(); r != "handler bug" {
			t.Errorf("recovered %v, want handler bug", r)
		}
	}()
	_ = d.Handle(&event.QuitEvent{})
}

func TestAddPanicsOnNil(t *testing.T) {
	tests := []struct {
		name    string
		pattern event.Event
		cb      Callback
		want    error
	}{
		{"nil pattern", nil, func(event.Event) error { return nil }, ErrNilPattern},
		{"typed nil pattern", (*event.KeyDownEvent)(nil), func(event.Event) error { return nil }, ErrNilPattern},
		{"nil callback", &event.QuitEvent{}, nil, ErrNilCallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != tt.want {
					t.Errorf("recovered %v, want %v", r, tt.want)
				}
			}()
			New().Add(tt.pattern, tt.cb)
		})
	}
}

func TestAddNoDeduplication(t *testing.T) {
	d := New()
	rec := &recorder{}
	p := &event.QuitEvent{}
	d.Add(p, rec.callback("a"))
	d.Add(p, rec.callback("b"))

	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "a,b" {
		t.Errorf("calls = %q, want %q", rec.joined(), "a,b")
	}
}

func TestRemove(t *testing.T) {
	d := New()
	rec := &recorder{}
	p1 := &event.QuitEvent{}
	p2 := &event.QuitEvent{}
	d.Add(p1, rec.callback("p1"))
	d.Add(p2, rec.callback("p2"))

	if !d.Remove(p1) {
		t.Fatal("Remove(p1) = false, want true")
	}
	if d.Remove(p1) {
		t.Error("second Remove(p1) = true, want false")
	}
	if d.Remove(&event.QuitEvent{}) {
		t.Error("Remove of an equal but distinct pattern should not match")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}

	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "p2" {
		t.Errorf("calls = %q, want %q", rec.joined(), "p2")
	}
}

func TestRemoveRegistration(t *testing.T) {
	d := New()
	rec := &recorder{}
	p := &event.QuitEvent{}
	first := d.Add(p, rec.callback("first"))
	d.Add(p, rec.callback("second"))

	if !d.RemoveRegistration(first) {
		t.Fatal("RemoveRegistration() = false, want true")
	}
	if d.RemoveRegistration(first) {
		t.Error("RemoveRegistration() twice = true, want false")
	}

	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "second" {
		t.Errorf("calls = %q, want %q", rec.joined(), "second")
	}
}

func TestMuteUnmute(t *testing.T) {
	d := New()
	rec := &recorder{}
	p := &event.QuitEvent{}
	d.Add(p, rec.callback("quit"))

	if !d.Mute(p) {
		t.Fatal("Mute() = false, want true")
	}
	_ = d.Handle(&event.QuitEvent{})
	if len(rec.calls) != 0 {
		t.Fatalf("muted registration fired: %v", rec.calls)
	}

	if !d.Unmute(p) {
		t.Fatal("Unmute() = false, want true")
	}
	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "quit" {
		t.Errorf("calls = %q, want %q", rec.joined(), "quit")
	}

	if d.Mute(&event.QuitEvent{}) || d.Unmute(&event.QuitEvent{}) {
		t.Error("Mute/Unmute of an unknown pattern should report false")
	}
}

func TestUnmuteMutedPattern(t *testing.T) {
	d := New()
	rec := &recorder{}
	p := &event.QuitEvent{Meta: event.Meta{Mute: true}}
	r := d.Add(p, rec.callback("quit"))

	_ = d.Handle(&event.QuitEvent{})
	if len(rec.calls) != 0 {
		t.Fatal("registration of a muted pattern fired")
	}

	if !d.UnmuteRegistration(r) {
		t.Fatal("UnmuteRegistration() = false, want true")
	}
	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "quit" {
		t.Errorf("calls = %q, want %q", rec.joined(), "quit")
	}

	if !d.MuteRegistration(r) {
		t.Fatal("MuteRegistration() = false, want true")
	}
	d.RemoveRegistration(r)
	if d.MuteRegistration(r) || d.UnmuteRegistration(r) {
		t.Error("Mute/UnmuteRegistration of a removed registration should report false")
	}
}

func TestMutationDuringHandle(t *testing.T) {
	d := New()
	rec := &recorder{}
	var second *Registration

	d.Add(&event.QuitEvent{}, func(ev event.Event) error {
		rec.calls = append(rec.calls, "first")
		d.RemoveRegistration(second)
		d.Add(&event.QuitEvent{}, rec.callback("added"))
		return nil
	})
	second = d.Add(&event.QuitEvent{}, rec.callback("second"))

	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "first,second" {
		t.Errorf("first dispatch = %q, want %q", rec.joined(), "first,second")
	}

	rec.calls = nil
	d.Clear()
	d.Add(&event.QuitEvent{}, rec.callback("only"))
	_ = d.Handle(&event.QuitEvent{})
	if rec.joined() != "only" {
		t.Errorf("after Clear = %q, want %q", rec.joined(), "only")
	}
}

func TestMuteDuringHandle(t *testing.T) {
	d := New()
	rec := &recorder{}
	later := &event.QuitEvent{}

	d.Add(&event.QuitEvent{}, func(event.Event) error {
		d.Mute(later)
		return nil
	})
	d.Add(later, rec.callback("later"))

	_ = d.Handle(&event.QuitEvent{})
	if len(rec.calls) != 0 {
		t.Errorf("registration muted earlier in the same dispatch fired: %v", rec.calls)
	}
}

func TestStats(t *testing.T) {
	d := New()
	d.Add(&event.QuitEvent{}, func(event.Event) error { return nil })
	d.Add(&event.QuitEvent{}, func(event.Event) error { return nil })

	_ = d.Handle(&event.QuitEvent{})
	_ = d.Handle(&event.UnknownEvent{})
	_ = d.Handle(&event.QuitEvent{Meta: event.Meta{Mute: true}})

	want := Stats{Handled: 3, Suppressed: 1, Delivered: 2, Unmatched: 1, Registrations: 2}
	if got := d.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestRegistrations(t *testing.T) {
	d := New()
	p := &event.PasteEvent{}
	r := d.Add(p, func(event.Event) error { return nil })

	regs := d.Registrations()
	if len(regs) != 1 || regs[0] != r {
		t.Fatalf("Registrations() = %v, want [%v]", regs, r)
	}
	if r.Pattern() != event.Event(p) {
		t.Error("Pattern() should return the registered pattern")
	}
	if r.ID().String() == "" {
		t.Error("ID() should not be empty")
	}
}
