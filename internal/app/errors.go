package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called on a running editor.
	ErrAlreadyRunning = errors.New("editor already running")

	// ErrNoSource indicates the editor has no event source.
	ErrNoSource = errors.New("no event source")
)

// InitError represents an initialization failure of one component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
