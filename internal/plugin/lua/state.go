package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single chunk or callback.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe. Every method takes the State
// mutex, so a State must not be re-entered from a Go function it called.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	timeout time.Duration
	print   func(msg string)
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for chunks and calls.
// Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// WithPrint redirects the Lua print function.
func WithPrint(fn func(msg string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.print)
	return s
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// Invoke calls fn with the arguments built by args and returns its first
// result. args runs under the State lock and may allocate Lua values.
func (s *State) Invoke(fn *lua.LFunction, args func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	ret := lua.LValue(lua.LNil)
	err := s.run(func() error {
		var argv []lua.LValue
		if args != nil {
			argv = args(s.L)
		}
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, argv...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// run executes fn under the lock with the execution timeout applied.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	var ctx context.Context
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Preload makes a module available to require and as a global.
func (s *State) Preload(name string, loader lua.LGFunction) error {
	return s.run(func() error {
		s.L.PreloadModule(name, loader)
		return s.L.DoString(fmt.Sprintf("%s = require(%q)", name, name))
	})
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
