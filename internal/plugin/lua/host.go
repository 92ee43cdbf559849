package lua

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/event/dispatch"
	"github.com/dshills/scribe/internal/event/match"
)

// Metatable names for the userdata handed to scripts.
const (
	handleTypeName  = "scribe.handle"
	matcherTypeName = "scribe.matcher"
)

// Host runs scripts against a dispatcher.
type Host struct {
	state      *State
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
	quit       func()

	mu      sync.Mutex
	regs    []*dispatch.Registration
	scripts []string
	current string
}

// Option configures a Host.
type Option func(*hostConfig)

type hostConfig struct {
	logger  zerolog.Logger
	quit    func()
	timeout time.Duration
}

// WithLogger sets the logger for scribe.log, print and predicate failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *hostConfig) {
		c.logger = l
	}
}

// WithQuit sets the function scribe.quit calls.
func WithQuit(fn func()) Option {
	return func(c *hostConfig) {
		c.quit = fn
	}
}

// WithTimeout sets the execution timeout of scripts and callbacks.
func WithTimeout(d time.Duration) Option {
	return func(c *hostConfig) {
		c.timeout = d
	}
}

// NewHost creates a host that registers script handlers on d.
func NewHost(d *dispatch.Dispatcher, opts ...Option) (*Host, error) {
	cfg := hostConfig{
		logger:  zerolog.Nop(),
		quit:    func() {},
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Host{
		dispatcher: d,
		logger:     cfg.logger,
		quit:       cfg.quit,
	}
	h.state = NewState(
		WithExecutionTimeout(cfg.timeout),
		WithPrint(func(msg string) {
			h.logger.Info().Str("script", h.currentScript()).Msg(msg)
		}),
	)
	if err := h.state.Preload(ModuleName, h.loadModule); err != nil {
		h.state.Close()
		return nil, fmt.Errorf("install %s module: %w", ModuleName, err)
	}
	return h, nil
}

// Load runs a script file. Handlers it registers stay active until Close.
func (h *Host) Load(path string) error {
	h.setCurrent(path)
	defer h.setCurrent("")

	if err := h.state.DoFile(path); err != nil {
		return &ScriptError{Script: path, Err: err}
	}

	h.mu.Lock()
	h.scripts = append(h.scripts, path)
	h.mu.Unlock()

	h.logger.Debug().Str("script", path).Msg("script loaded")
	return nil
}

// Run executes an inline chunk.
func (h *Host) Run(code string) error {
	if err := h.state.DoString(code); err != nil {
		return &ScriptError{Err: err}
	}
	return nil
}

// Scripts returns the paths of the loaded scripts.
func (h *Host) Scripts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.scripts)
}

// Registrations returns the registrations scripts have made that have not
// been removed through a handle.
func (h *Host) Registrations() []*dispatch.Registration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.regs)
}

// State returns the underlying Lua state.
func (h *Host) State() *State {
	return h.state
}

// Close removes every script registration and closes the Lua state.
func (h *Host) Close() error {
	h.mu.Lock()
	regs := h.regs
	h.regs = nil
	h.mu.Unlock()

	for _, r := range regs {
		h.dispatcher.RemoveRegistration(r)
	}
	return h.state.Close()
}

func (h *Host) setCurrent(path string) {
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
}

func (h *Host) currentScript() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

func (h *Host) forget(r *dispatch.Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.regs = slices.DeleteFunc(h.regs, func(x *dispatch.Registration) bool { return x == r })
}

// loadModule builds the scribe module table.
func (h *Host) loadModule(L *lua.LState) int {
	handleMT := L.NewTypeMetatable(handleTypeName)
	L.SetField(handleMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"remove": h.handleRemove,
		"mute":   h.handleMute,
		"unmute": h.handleUnmute,
		"id":     h.handleID,
	}))

	matcherMT := L.NewTypeMetatable(matcherTypeName)
	L.SetField(matcherMT, "__tostring", L.NewFunction(func(L *lua.LState) int {
		m, _ := matcherOf(L.CheckUserData(1))
		L.Push(lua.LString(fmt.Sprint(m)))
		return 1
	}))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on":        h.luaOn,
		"char":      matcherFunc(match.Char),
		"grapheme":  matcherFunc(match.Grapheme),
		"printable": matcherFunc(match.Printable),
		"predicate": h.luaPredicate,
		"quit":      h.luaQuit,
		"log":       h.luaLog,
	})

	kinds := L.NewTable()
	for _, k := range event.Kinds {
		kinds.Append(lua.LString(k))
	}
	L.SetField(mod, "kinds", kinds)

	L.Push(mod)
	return 1
}

// scribe.on(kind, pattern, fn) -> handle
func (h *Host) luaOn(L *lua.LState) int {
	kind := event.Kind(L.CheckString(1))
	fn := L.CheckFunction(3)

	pattern, err := patternFromLua(kind, L.Get(2))
	if err != nil {
		L.RaiseError("scribe.on: %v", err)
		return 0
	}

	script := h.currentScript()
	r := h.dispatcher.Add(pattern, h.callback(script, fn))

	h.mu.Lock()
	h.regs = append(h.regs, r)
	h.mu.Unlock()

	ud := L.NewUserData()
	ud.Value = r
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	L.Push(ud)
	return 1
}

// callback adapts a Lua function to a dispatcher callback. Lua errors are
// returned as *ScriptError.
func (h *Host) callback(script string, fn *lua.LFunction) dispatch.Callback {
	return func(ev event.Event) error {
		_, err := h.state.Invoke(fn, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{eventTable(L, ev)}
		})
		if err != nil {
			return &ScriptError{Script: script, Err: err}
		}
		return nil
	}
}

// scribe.predicate(fn) -> matcher
func (h *Host) luaPredicate(L *lua.LState) int {
	fn := L.CheckFunction(1)
	script := h.currentScript()

	m := match.Func("lua predicate", func(v any) bool {
		ret, err := h.state.Invoke(fn, func(*lua.LState) []lua.LValue {
			return []lua.LValue{toLuaValue(v)}
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("script", script).Msg("predicate failed")
			return false
		}
		return lua.LVAsBool(ret)
	})
	L.Push(newMatcher(L, m))
	return 1
}

func (h *Host) luaQuit(L *lua.LState) int {
	h.quit()
	return 0
}

// scribe.log(msg [, level])
func (h *Host) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	level, err := zerolog.ParseLevel(L.OptString(2, "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	h.logger.WithLevel(level).Str("script", h.currentScript()).Msg(msg)
	return 0
}

func matcherFunc(ctor func() match.Matcher) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(newMatcher(L, ctor()))
		return 1
	}
}

func newMatcher(L *lua.LState, m match.Matcher) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = m
	L.SetMetatable(ud, L.GetTypeMetatable(matcherTypeName))
	return ud
}

func checkHandle(L *lua.LState) *dispatch.Registration {
	ud := L.CheckUserData(1)
	r, ok := ud.Value.(*dispatch.Registration)
	if !ok {
		L.ArgError(1, "handle expected")
		return nil
	}
	return r
}

func (h *Host) handleRemove(L *lua.LState) int {
	r := checkHandle(L)
	removed := h.dispatcher.RemoveRegistration(r)
	h.forget(r)
	L.Push(lua.LBool(removed))
	return 1
}

func (h *Host) handleMute(L *lua.LState) int {
	L.Push(lua.LBool(h.dispatcher.MuteRegistration(checkHandle(L))))
	return 1
}

func (h *Host) handleUnmute(L *lua.LState) int {
	L.Push(lua.LBool(h.dispatcher.UnmuteRegistration(checkHandle(L))))
	return 1
}

func (h *Host) handleID(L *lua.LState) int {
	L.Push(lua.LString(checkHandle(L).ID().String()))
	return 1
}
