package dispatch

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/scribe/internal/event"
)

// Dispatcher matches complete events against registered patterns and
// invokes the callbacks of every match in registration order.
// The zero value is not usable; call New.
type Dispatcher struct {
	mu   sync.Mutex
	regs []*Registration

	logger zerolog.Logger

	// Stats
	handled    atomic.Uint64
	suppressed atomic.Uint64
	delivered  atomic.Uint64
	unmatched  atomic.Uint64
	failed     atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for registration changes and failures.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add appends a registration for pattern. Patterns are normally partial and
// are not checked for completeness. Adding the same pattern twice creates
// two registrations. The registration starts muted if pattern is muted.
//
// Add panics if pattern or cb is nil.
func (d *Dispatcher) Add(pattern event.Event, cb Callback) *Registration {
	if event.IsNil(pattern) {
		panic(ErrNilPattern)
	}
	if cb == nil {
		panic(ErrNilCallback)
	}

	r := &Registration{
		id:       uuid.New(),
		pattern:  pattern,
		callback: cb,
		muted:    pattern.Muted(),
	}

	d.mu.Lock()
	d.regs = append(d.regs, r)
	d.mu.Unlock()

	d.logger.Debug().
		Str("registration", r.id.String()).
		Str("pattern", event.Describe(pattern)).
		Msg("handler added")
	return r
}

// Remove deletes the first registration added with this exact pattern value.
// It reports whether one was found; removing an absent pattern is a no-op.
func (d *Dispatcher) Remove(pattern event.Event) bool {
	return d.removeWhere(func(r *Registration) bool { return r.pattern == pattern })
}

// RemoveRegistration deletes r. It reports whether r was still registered.
func (d *Dispatcher) RemoveRegistration(r *Registration) bool {
	return d.removeWhere(func(other *Registration) bool { return other == r })
}

func (d *Dispatcher) removeWhere(pred func(*Registration) bool) bool {
	d.mu.Lock()
	i := slices.IndexFunc(d.regs, pred)
	var removed *Registration
	if i >= 0 {
		removed = d.regs[i]
		// Allocate a new slice so snapshots held by Handle stay intact.
		d.regs = slices.Concat(d.regs[:i], d.regs[i+1:])
	}
	d.mu.Unlock()

	if removed == nil {
		return false
	}
	d.logger.Debug().Str("registration", removed.id.String()).Msg("handler removed")
	return true
}

// Mute disables the first registration added with this exact pattern value.
// It reports whether one was found.
func (d *Dispatcher) Mute(pattern event.Event) bool {
	return d.setMuted(pattern, true)
}

// Unmute re-enables the first registration added with this exact pattern
// value. It reports whether one was found.
func (d *Dispatcher) Unmute(pattern event.Event) bool {
	return d.setMuted(pattern, false)
}

// MuteRegistration disables r. It reports whether r is registered.
func (d *Dispatcher) MuteRegistration(r *Registration) bool {
	return d.setRegistrationMuted(r, true)
}

// UnmuteRegistration re-enables r. It reports whether r is registered.
func (d *Dispatcher) UnmuteRegistration(r *Registration) bool {
	return d.setRegistrationMuted(r, false)
}

func (d *Dispatcher) setMuted(pattern event.Event, muted bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.regs {
		if r.pattern == pattern {
			r.muted = muted
			return true
		}
	}
	return false
}

func (d *Dispatcher) setRegistrationMuted(r *Registration, muted bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !slices.Contains(d.regs, r) {
		return false
	}
	r.muted = muted
	return true
}

// Handle dispatches ev to every registration whose pattern it satisfies, in
// registration order.
//
// Handle panics if ev is not complete. A muted ev is dropped. The first
// callback error stops dispatch and is returned wrapped in a *HandlerError.
func (d *Dispatcher) Handle(ev event.Event) error {
	if !event.IsComplete(ev) {
		panic(fmt.Errorf("%w: %s", ErrIncompleteEvent, event.Describe(ev)))
	}
	d.handled.Add(1)

	if ev.Muted() {
		d.suppressed.Add(1)
		return nil
	}

	d.mu.Lock()
	regs := d.regs
	d.mu.Unlock()

	matched := false
	for _, r := range regs {
		if !d.accepts(r, ev) {
			continue
		}
		matched = true
		d.delivered.Add(1)

		if err := r.callback(ev); err != nil {
			d.failed.Add(1)
			d.logger.Debug().
				Err(err).
				Str("registration", r.id.String()).
				Str("event", event.Describe(ev)).
				Msg("handler failed")
			return &HandlerError{RegistrationID: r.id, Kind: ev.Kind(), Err: err}
		}
	}

	if !matched {
		d.unmatched.Add(1)
	}
	return nil
}

// accepts reads the mute flag under the lock since Mute may run from a
// callback of the same Handle call.
func (d *Dispatcher) accepts(r *Registration, ev event.Event) bool {
	d.mu.Lock()
	muted := r.muted
	d.mu.Unlock()
	return !muted && event.Matches(r.pattern, ev)
}

// Len returns the number of registrations.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.regs)
}

// Registrations returns a snapshot of the registrations in order.
func (d *Dispatcher) Registrations() []*Registration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.regs)
}

// Clear removes every registration.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.regs = nil
	d.mu.Unlock()
}

// Stats returns dispatch statistics.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Handled:       d.handled.Load(),
		Suppressed:    d.suppressed.Load(),
		Delivered:     d.delivered.Load(),
		Unmatched:     d.unmatched.Load(),
		Failed:        d.failed.Load(),
		Registrations: d.Len(),
	}
}

// Stats contains dispatcher statistics.
type Stats struct {
	// Handled is the number of Handle calls.
	Handled uint64

	// Suppressed is the number of muted events dropped.
	Suppressed uint64

	// Delivered is the number of callback invocations.
	Delivered uint64

	// Unmatched is the number of unmuted events no registration matched.
	Unmatched uint64

	// Failed is the number of callbacks that returned an error.
	Failed uint64

	// Registrations is the current number of registrations.
	Registrations int
}
