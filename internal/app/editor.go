package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/dispatch"
	"github.com/dshills/scribe/internal/event/trace"
	"github.com/dshills/scribe/internal/frontend"
	"github.com/dshills/scribe/internal/plugin/lua"
)

// Renderer draws one frame.
type Renderer interface {
	Render(v frontend.View)
}

// Editor is the main loop.
type Editor struct {
	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	source     frontend.Source
	renderer   Renderer
	recorder   *trace.Recorder
	scripts    *lua.Host
	logger     zerolog.Logger
	state      *State

	quitRegs []*dispatch.Registration

	pendingMu sync.Mutex
	pending   *config.Config

	quit    atomic.Bool
	running atomic.Bool
	frames  atomic.Uint64
	failed  atomic.Uint64
}

// Option configures an Editor.
type Option func(*Editor)

// WithRenderer sets where frames are drawn. Without one the editor runs
// headless.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) {
		e.renderer = r
	}
}

// WithRecorder records every dispatched event.
func WithRecorder(r *trace.Recorder) Option {
	return func(e *Editor) {
		e.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithDispatcher sets the dispatcher the default handlers are added to.
func WithDispatcher(d *dispatch.Dispatcher) Option {
	return func(e *Editor) {
		e.dispatcher = d
	}
}

// New creates an editor reading events from source.
func New(cfg *config.Config, source frontend.Source, opts ...Option) (*Editor, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if cfg == nil {
		cfg = config.Default()
	}

	e := &Editor{
		cfg:    cfg.Clone(),
		source: source,
		logger: zerolog.Nop(),
		state:  NewState(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		e.dispatcher = dispatch.New(dispatch.WithLogger(WithComponent(e.logger, "dispatch")))
	}

	e.installHandlers()
	if err := e.bindQuitKeys(e.cfg.Keys.Quit); err != nil {
		return nil, &InitError{Component: "keys", Err: err}
	}
	return e, nil
}

// LoadScripts starts the Lua host and runs the given scripts in order.
// Loading stops at the first failing script.
func (e *Editor) LoadScripts(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if e.scripts == nil {
		host, err := lua.NewHost(e.dispatcher,
			lua.WithLogger(WithComponent(e.logger, "lua")),
			lua.WithQuit(e.Quit),
		)
		if err != nil {
			return &InitError{Component: "lua", Err: err}
		}
		e.scripts = host
	}
	for _, path := range paths {
		if err := e.scripts.Load(path); err != nil {
			return err
		}
	}
	return nil
}

// Dispatcher returns the editor's dispatcher.
func (e *Editor) Dispatcher() *dispatch.Dispatcher {
	return e.dispatcher
}

// State returns the text sink.
func (e *Editor) State() *State {
	return e.state
}

// Config returns the active configuration.
func (e *Editor) Config() *config.Config {
	return e.cfg
}

// Frames returns the number of frames run.
func (e *Editor) Frames() uint64 {
	return e.frames.Load()
}

// Failures returns the number of handler failures.
func (e *Editor) Failures() uint64 {
	return e.failed.Load()
}

// Quit asks the loop to stop after the current frame.
func (e *Editor) Quit() {
	e.quit.Store(true)
}

// Quitting returns true once Quit has been called.
func (e *Editor) Quitting() bool {
	return e.quit.Load()
}

// Reload schedules cfg to be applied at the start of the next frame. Only
// the newest pending configuration is applied. Safe to call from any
// goroutine.
func (e *Editor) Reload(cfg *config.Config) {
	e.pendingMu.Lock()
	e.pending = cfg.Clone()
	e.pendingMu.Unlock()
}

// Run executes frames at the configured rate until quit or ctx is done.
func (e *Editor) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	fps := e.cfg.Editor.FPS
	ticker := time.NewTicker(frameDuration(fps))
	defer ticker.Stop()

	e.logger.Info().Int("fps", fps).Msg("editor started")
	for e.Step() {
		if e.cfg.Editor.FPS != fps {
			fps = e.cfg.Editor.FPS
			ticker.Reset(frameDuration(fps))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	e.logger.Info().Uint64("frames", e.frames.Load()).Msg("editor stopped")
	return nil
}

// Step runs one frame: apply a pending reload, dispatch the pending
// events and render. It returns false once the editor should stop.
func (e *Editor) Step() bool {
	e.frames.Add(1)
	e.applyPending()

	for _, ev := range e.source.Poll() {
		e.dispatch(ev)
	}

	if e.renderer != nil {
		e.renderer.Render(e.view())
	}
	return !e.quit.Load()
}

func (e *Editor) dispatch(ev event.Event) {
	if e.recorder != nil {
		if err := e.recorder.Record(ev); err != nil {
			e.logger.Warn().Err(err).Msg("trace record failed")
		}
	}

	err := e.dispatcher.Handle(ev)
	if err == nil {
		return
	}
	e.failed.Add(1)

	var herr *dispatch.HandlerError
	if errors.As(err, &herr) {
		e.logger.Error().Err(herr.Err).
			Stringer("registration", herr.RegistrationID).
			Str("kind", string(herr.Kind)).
			Msg("handler failed")
		return
	}
	e.logger.Error().Err(err).Msg("dispatch failed")
}

func (e *Editor) applyPending() {
	e.pendingMu.Lock()
	cfg := e.pending
	e.pending = nil
	e.pendingMu.Unlock()

	if cfg == nil {
		return
	}
	if err := e.bindQuitKeys(cfg.Keys.Quit); err != nil {
		e.logger.Warn().Err(err).Msg("reload: keeping previous quit keys")
		cfg.Keys.Quit = e.cfg.Keys.Quit
	}
	e.cfg = cfg
	e.logger.Info().Msg("configuration reloaded")
}

func (e *Editor) view() frontend.View {
	line, col := e.state.Cursor()
	return frontend.View{
		Caption:    e.cfg.Editor.Caption,
		Background: e.cfg.Editor.BackgroundColor(),
		Foreground: e.cfg.Editor.ForegroundColor(),
		Lines:      e.state.Lines(),
		Status:     fmt.Sprintf("Ln %d, Col %d", line, col),
	}
}

// Close releases the script host and the scripts' registrations.
func (e *Editor) Close() error {
	if e.scripts == nil {
		return nil
	}
	err := e.scripts.Close()
	e.scripts = nil
	return err
}

func frameDuration(fps int) time.Duration {
	if fps < config.MinFPS {
		fps = config.MinFPS
	}
	return time.Second / time.Duration(fps)
}
