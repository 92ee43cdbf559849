package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk or callback runs past the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnknownKind is returned when a script names an event kind that
	// does not exist.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrInvalidPattern is returned when a pattern table cannot be converted.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ScriptError reports a failure inside a script callback.
type ScriptError struct {
	// Script is the path of the script that registered the callback, or
	// "" for inline chunks.
	Script string

	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.Script == "" {
		return fmt.Sprintf("lua: %v", e.Err)
	}
	return fmt.Sprintf("lua %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
